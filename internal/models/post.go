// Package models contains data structures for the application's domain models.
package models

// Post represents a single board submission as rendered at the store boundary.
// ImageSrc carries the image as a Base64 data URI built at read time; the raw
// payload and MIME type are persisted separately by the storage backends.
type Post struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	ImageSrc  string    `json:"imageSrc"`
	LikeCount int       `json:"likeCount"`
	CreatedAt int64     `json:"createdAt"`
	Comments  []Comment `json:"comments"`
}

// Comment is a short text attached to exactly one post, ordered oldest-first
// within the post by CreatedAt.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}
