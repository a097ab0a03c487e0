package usecase

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"book-review/internal/data/entity"
	"book-review/internal/dto/request"
	"book-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	*bookFixture
	reviews ReviewService
	book    *entity.Book
	other   Caller
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	bf := newBookFixture(t)
	other := &entity.User{Username: "other", Email: "other@example.com", PasswordHash: "x"}
	other.Touch(time.Now())
	bf.st.users[other.ID] = other

	return &reviewFixture{
		bookFixture: bf,
		reviews:     NewReviewService(bf.st.repository(), bf.ratings, nopLogger()),
		book:        bf.seedBooks(1, "Frank Herbert", "SF")[0],
		other:       Caller{ID: other.ID, Username: other.Username},
	}
}

func reviewReq(rating int, comment string) *request.ReviewRequest {
	return &request.ReviewRequest{Rating: request.Number(strconv.Itoa(rating)), Comment: comment}
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind, msg string) {
	t.Helper()
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, msg, appErr.Message)
}

func TestReviewService_AddReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	resp, err := f.reviews.AddReview(ctx, f.book.ID.String(), f.owner, reviewReq(4, "Great worldbuilding."))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Rating)
	assert.Equal(t, "owner", resp.User.Username)

	_, err = f.reviews.AddReview(ctx, f.book.ID.String(), f.owner, reviewReq(5, "Trying a second time."))
	requireKind(t, err, utils.KindBadRequest, "You have already reviewed this book")

	_, err = f.reviews.AddReview(ctx, uuid.NewString(), f.owner, reviewReq(5, "There is no such book."))
	requireKind(t, err, utils.KindNotFound, "Book not found")
}

func TestReviewService_AddReviewConcurrent(t *testing.T) {
	f := newReviewFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.reviews.AddReview(context.Background(), f.book.ID.String(), f.other, reviewReq(3, "Racing to post this."))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		appErr, ok := utils.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "You have already reviewed this book", appErr.Message)
		assert.Equal(t, 400, appErr.Kind.Status())
	}
	assert.Equal(t, 1, successes)
}

func TestReviewService_AddReviewInvalidatesRating(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	before, err := f.ratings.Summary(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Zero(t, before.TotalReviews)

	_, err = f.reviews.AddReview(ctx, f.book.ID.String(), f.owner, reviewReq(5, "Read it twice already."))
	require.NoError(t, err)

	after, err := f.ratings.Summary(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.TotalReviews)
	assert.InDelta(t, 5.0, after.AverageRating, 1e-9)
}

func TestReviewService_UpdateAndDeleteOwnership(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	created, err := f.reviews.AddReview(ctx, f.book.ID.String(), f.owner, reviewReq(2, "Not really my thing."))
	require.NoError(t, err)

	_, err = f.reviews.UpdateReview(ctx, created.ID, f.other, reviewReq(5, "Hijacking this review."))
	requireKind(t, err, utils.KindForbidden, "Not authorized to update this review")

	err = f.reviews.DeleteReview(ctx, created.ID, f.other)
	requireKind(t, err, utils.KindForbidden, "Not authorized to delete this review")

	updated, err := f.reviews.UpdateReview(ctx, created.ID, f.owner, reviewReq(4, "Grew on me after all."))
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Grew on me after all.", updated.Comment)

	require.NoError(t, f.reviews.DeleteReview(ctx, created.ID, f.owner))

	_, err = f.reviews.GetReview(ctx, created.ID)
	requireKind(t, err, utils.KindNotFound, "Review not found")

	err = f.reviews.DeleteReview(ctx, created.ID, f.owner)
	requireKind(t, err, utils.KindNotFound, "Review not found")
}

func TestReviewService_GetUserReviews(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	second := f.seedBooks(1, "Mary Shelley", "Gothic")[0]

	_, err := f.reviews.AddReview(ctx, f.book.ID.String(), f.other, reviewReq(4, "Solid and dense read."))
	require.NoError(t, err)
	_, err = f.reviews.AddReview(ctx, second.ID.String(), f.other, reviewReq(5, "A true classic novel."))
	require.NoError(t, err)

	page, err := f.reviews.GetUserReviews(ctx, f.other.ID.String(), request.PaginationQuery{RawLimit: "1"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Count)
	require.NotNil(t, page.Pagination.Next)
	require.NotNil(t, page.Data[0].Book)
	assert.Equal(t, "other", page.Data[0].User.Username)

	empty, err := f.reviews.GetUserReviews(ctx, uuid.NewString(), request.PaginationQuery{})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Data)
}
