// internal/domain/ootd/service_test.go
package ootd

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOOTDTest(t *testing.T) *Service {
	t.Helper()

	dsn := "file:ootd_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Post{}, &PostLike{}))

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	return NewService(db, &config.Config{}, l)
}

func TestCreatePost_And_Feed(t *testing.T) {
	svc := setupOOTDTest(t)

	post, err := svc.CreatePost(1, &CreatePostRequest{
		ImageURL:   "https://cdn.example.com/looks/1.jpg",
		Caption:    "spring layering",
		ProductIDs: []uint{3, 7},
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, ProductIDList{3, 7}, post.ProductIDs)

	feed, err := svc.GetFeed(&FeedRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "spring layering", feed.Posts[0].Caption)
}

func TestGetFeed_PaginatesNewestFirst(t *testing.T) {
	svc := setupOOTDTest(t)

	var last uint
	for i := 0; i < 5; i++ {
		p, err := svc.CreatePost(1, &CreatePostRequest{ImageURL: "https://cdn.example.com/x.jpg"})
		require.NoError(t, err)
		last = p.ID
	}

	feed, err := svc.GetFeed(&FeedRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 2)
	assert.Equal(t, int64(5), feed.Total)
	assert.Equal(t, 3, feed.TotalPages)
	assert.Equal(t, last, feed.Posts[0].ID)
}

func TestGetFeed_FiltersByAuthor(t *testing.T) {
	svc := setupOOTDTest(t)

	_, err := svc.CreatePost(1, &CreatePostRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	_, err = svc.CreatePost(2, &CreatePostRequest{ImageURL: "https://cdn.example.com/b.jpg"})
	require.NoError(t, err)

	feed, err := svc.GetFeed(&FeedRequest{Page: 1, Limit: 10, UserID: 2})
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, uint(2), feed.Posts[0].UserID)
}

func TestDeletePost_OnlyAuthor(t *testing.T) {
	svc := setupOOTDTest(t)

	post, err := svc.CreatePost(1, &CreatePostRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)

	assert.Error(t, svc.DeletePost(2, post.ID))
	require.NoError(t, svc.DeletePost(1, post.ID))

	_, err = svc.GetPost(post.ID)
	assert.Error(t, err)
}

func TestToggleLike_AddsThenRemoves(t *testing.T) {
	svc := setupOOTDTest(t)

	post, err := svc.CreatePost(1, &CreatePostRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)

	res, err := svc.ToggleLike(2, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikeCount)

	res2, err := svc.ToggleLike(3, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res2.LikeCount)

	res3, err := svc.ToggleLike(2, post.ID)
	require.NoError(t, err)
	assert.False(t, res3.Liked)
	assert.Equal(t, 1, res3.LikeCount)

	got, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestToggleLike_UnknownPost(t *testing.T) {
	svc := setupOOTDTest(t)
	_, err := svc.ToggleLike(1, 999)
	assert.Error(t, err)
}
