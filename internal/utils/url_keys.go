package utils

const (
	// UserIdParamKey is the key for user ID used in routing parameters.
	UserIdParamKey = "userId"

	// PostIdParamKey is the key for post ID used in routing parameters.
	PostIdParamKey = "postId"

	// CommentIdParamKey is the key for comment ID used in routing parameters.
	CommentIdParamKey = "commentId"

	// EntryIdParamKey is the key for an experience or education entry ID used in routing parameters.
	EntryIdParamKey = "entryId"
)
