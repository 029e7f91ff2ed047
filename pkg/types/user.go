package types

import "time"

// User is the signed-in administrator persisted under CurrentUserKey.
type User struct {
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

// RoleAdmin is the only role the site knows.
const RoleAdmin = "admin"

// Session is returned by a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
