package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dev-castle-server/internal/managers"
	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

type PostHdl interface {
	CreatePost(c *gin.Context)
	GetAllPosts(c *gin.Context)
	GetPost(c *gin.Context)
	LikePost(c *gin.Context)
	UnlikePost(c *gin.Context)
	DeletePost(c *gin.Context)
	CreateComment(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type PostHandler struct {
	DatabaseManager managers.DatabaseMgr
	CacheManager    managers.CacheMgr
}

func NewPostHandler(databaseManager *managers.DatabaseMgr, cacheManager *managers.CacheMgr) PostHdl {
	return &PostHandler{
		DatabaseManager: *databaseManager,
		CacheManager:    *cacheManager,
	}
}

// fetchPost loads the post addressed by the path parameter. A malformed id is
// indistinguishable from a missing post and reads as 404.
func (handler *PostHandler) fetchPost(c *gin.Context) (*schemas.Post, bool) {
	postId, err := primitive.ObjectIDFromHex(c.Param(utils.PostIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.PostNotFound, http.StatusNotFound, err)
		return nil, false
	}

	post := &schemas.Post{}
	err = handler.DatabaseManager.Posts().FindOne(c, bson.M{"_id": postId}).Decode(post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.PostNotFound, http.StatusNotFound, err)
		return nil, false
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}

	return post, true
}

// fetchAuthor loads the caller's user record for denormalizing author fields
// onto posts and comments.
func (handler *PostHandler) fetchAuthor(c *gin.Context, userId primitive.ObjectID) (*schemas.User, bool) {
	user := &schemas.User{}
	err := handler.DatabaseManager.Users().FindOne(c, bson.M{"_id": userId}, excludePassword).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return nil, false
	} else if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}

	return user, true
}

// CreatePost creates a new post. The author's display name and avatar are
// captured at creation time and never refreshed afterwards.
func (handler *PostHandler) CreatePost(c *gin.Context) {
	createPostRequest, ok := sanitizedPayload[schemas.CreatePostRequest](c)
	if !ok {
		return
	}

	userId, ok := callerId(c)
	if !ok {
		return
	}

	user, ok := handler.fetchAuthor(c, userId)
	if !ok {
		return
	}

	now := time.Now()
	post := &schemas.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userId,
		Text:      createPostRequest.Text,
		Name:      user.Firstname + " " + user.Lastname,
		Avatar:    user.Avatar,
		Likes:     []schemas.Like{},
		Comments:  []schemas.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := handler.DatabaseManager.Posts().InsertOne(c, post); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.CacheManager.InvalidateFeed(c)
	utils.WriteAndLogResponse(c, post, http.StatusOK)
}

// GetAllPosts returns the feed, most recently updated first. When a cache is
// configured the feed is served from it within its TTL.
func (handler *PostHandler) GetAllPosts(c *gin.Context) {
	if posts, hit := handler.CacheManager.GetFeed(c); hit {
		utils.WriteAndLogResponse(c, posts, http.StatusOK)
		return
	}

	cursor, err := handler.DatabaseManager.Posts().Find(c, bson.M{}, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	posts := []schemas.Post{}
	if err = cursor.All(c, &posts); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.CacheManager.SetFeed(c, posts)
	utils.WriteAndLogResponse(c, posts, http.StatusOK)
}

// GetPost returns a single post by id.
func (handler *PostHandler) GetPost(c *gin.Context) {
	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	utils.WriteAndLogResponse(c, post, http.StatusOK)
}

// LikePost adds the caller to the post's like list, at most once. The push is
// conditional on the caller being absent from the list, so concurrent likes
// cannot produce duplicates.
func (handler *PostHandler) LikePost(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	if likeIndex(post.Likes, userId) >= 0 {
		utils.WriteAndLogError(c, schemas.PostAlreadyLiked, http.StatusBadRequest, errors.New("duplicate like"))
		return
	}

	like := schemas.Like{ID: primitive.NewObjectID(), UserID: userId}
	filter := bson.M{"_id": post.ID, "likes.user": bson.M{"$ne": userId}}
	update := bson.M{
		"$push": bson.M{"likes": bson.M{"$each": []schemas.Like{like}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := handler.DatabaseManager.Posts().UpdateOne(c, filter, update)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if result.ModifiedCount == 0 {
		// A concurrent request won the race between read and update
		utils.WriteAndLogError(c, schemas.PostAlreadyLiked, http.StatusBadRequest, errors.New("duplicate like"))
		return
	}

	likes := append([]schemas.Like{like}, post.Likes...)
	utils.WriteAndLogResponse(c, likes, http.StatusOK)
}

// UnlikePost removes the caller's like from the post, if present.
func (handler *PostHandler) UnlikePost(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	index := likeIndex(post.Likes, userId)
	if index < 0 {
		utils.WriteAndLogError(c, schemas.PostNotLiked, http.StatusBadRequest, errors.New("like not present"))
		return
	}

	update := bson.M{
		"$pull": bson.M{"likes": bson.M{"user": userId}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := handler.DatabaseManager.Posts().UpdateOne(c, bson.M{"_id": post.ID}, update); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	likes := append(append([]schemas.Like{}, post.Likes[:index]...), post.Likes[index+1:]...)
	utils.WriteAndLogResponse(c, likes, http.StatusOK)
}

// DeletePost removes a post. Only the owning author may do this.
func (handler *PostHandler) DeletePost(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	if post.UserID != userId {
		utils.WriteAndLogError(c, schemas.NotAuthorized, http.StatusUnauthorized, errors.New("caller does not own post"))
		return
	}

	if _, err := handler.DatabaseManager.Posts().DeleteOne(c, bson.M{"_id": post.ID}); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.CacheManager.InvalidateFeed(c)
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Post deleted"}, http.StatusOK)
}

// CreateComment adds a comment to a post. Any authenticated user may comment;
// author fields are denormalized the same way as on posts.
func (handler *PostHandler) CreateComment(c *gin.Context) {
	createCommentRequest, ok := sanitizedPayload[schemas.CreateCommentRequest](c)
	if !ok {
		return
	}

	userId, ok := callerId(c)
	if !ok {
		return
	}

	user, ok := handler.fetchAuthor(c, userId)
	if !ok {
		return
	}

	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	comment := schemas.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userId,
		Text:      createCommentRequest.Text,
		Name:      user.Firstname + " " + user.Lastname,
		Avatar:    user.Avatar,
		CreatedAt: time.Now(),
	}

	update := bson.M{
		"$push": bson.M{"comments": bson.M{"$each": []schemas.Comment{comment}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := handler.DatabaseManager.Posts().UpdateOne(c, bson.M{"_id": post.ID}, update); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	comments := append([]schemas.Comment{comment}, post.Comments...)
	utils.WriteAndLogResponse(c, comments, http.StatusOK)
}

// DeleteComment removes a comment from a post. The comment is matched by its
// own id, never by the commenter, so users with several comments on one post
// only ever delete the addressed one. Only the comment's author may do this.
func (handler *PostHandler) DeleteComment(c *gin.Context) {
	userId, ok := callerId(c)
	if !ok {
		return
	}

	post, ok := handler.fetchPost(c)
	if !ok {
		return
	}

	commentId, err := primitive.ObjectIDFromHex(c.Param(utils.CommentIdParamKey))
	if err != nil {
		utils.WriteAndLogError(c, schemas.CommentNotFound, http.StatusNotFound, err)
		return
	}

	index := commentIndex(post.Comments, commentId)
	if index < 0 {
		utils.WriteAndLogError(c, schemas.CommentNotFound, http.StatusNotFound, errors.New("comment not in post"))
		return
	}

	if post.Comments[index].UserID != userId {
		utils.WriteAndLogError(c, schemas.NotAuthorized, http.StatusUnauthorized, errors.New("caller does not own comment"))
		return
	}

	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentId}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := handler.DatabaseManager.Posts().UpdateOne(c, bson.M{"_id": post.ID}, update); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	comments := append(append([]schemas.Comment{}, post.Comments[:index]...), post.Comments[index+1:]...)
	utils.WriteAndLogResponse(c, comments, http.StatusOK)
}

func likeIndex(likes []schemas.Like, userId primitive.ObjectID) int {
	for i, like := range likes {
		if like.UserID == userId {
			return i
		}
	}
	return -1
}

func commentIndex(comments []schemas.Comment, commentId primitive.ObjectID) int {
	for i, comment := range comments {
		if comment.ID == commentId {
			return i
		}
	}
	return -1
}
