package models

// Owner is the public part of a project owner's profile.
type Owner struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Tag and Skill label projects in the feed.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project is the response of GET /projects/{id}.
type Project struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Owner         *Owner  `json:"owner"`
	Tags          []Tag   `json:"tags"`
	Skills        []Skill `json:"skills"`
	CommentsCount int     `json:"comments_count"`
	VoteCount     int     `json:"vote_count"`
}
