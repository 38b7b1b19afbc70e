package view

import "io"

// GoogleAuthorizationURL starts the OAuth2 login with Google on the backend.
const GoogleAuthorizationURL = "http://localhost:8080/oauth2/authorization/google"

type LoginPage struct{}

func (LoginPage) AuthorizationURL() string {
	return GoogleAuthorizationURL
}

func (p LoginPage) Render(w io.Writer) error {
	return render(w, "login_page", p)
}
