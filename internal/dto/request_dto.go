package dto

// CredentialsForm is posted by both the signup and login pages.
type CredentialsForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// UploadForm carries the text fields of the resume upload; the file itself
// arrives as the "resume" multipart part.
type UploadForm struct {
	Name   string `form:"name"`
	Email  string `form:"email"`
	Skills string `form:"skills"`
}

type AskForm struct {
	Question string `form:"user_question"`
}

type AdminFilterQuery struct {
	Skill string `form:"skill"`
}

type QuizQuery struct {
	Skills string `form:"skills"`
}
