package api

// AuthResponse is returned by signup, signin and google-auth: the freshly
// signed access token plus the profile slice the client caches.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
}
