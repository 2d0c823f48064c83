package blogger

// Post is a post as returned by the platform's list endpoint.
type Post struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Published string   `json:"published"`
	Labels    []string `json:"labels"`
}

type postList struct {
	Items         []Post `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type createPostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Labels  []string `json:"labels"`
}

type createPostResponse struct {
	ID string `json:"id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// PostRef is the published state of one match post, reconstructed from the
// post's labels: its platform ID, the identity encoded in the match:<id>
// label, and the kickoff from the kickoff:<epoch> label (falling back to the
// post's publish timestamp when the label is absent).
type PostRef struct {
	PostID   string
	Identity string
	Kickoff  int64
}
