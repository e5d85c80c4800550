package models

// UserAccount is the single local operator's credential record.
type UserAccount struct {
	ID           string `json:"id" bson:"id"`
	FullName     string `json:"fullName" bson:"full_name"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         string `json:"role" bson:"role"`
}
