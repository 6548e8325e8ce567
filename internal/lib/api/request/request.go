package request

// Request payloads. Validation tags are enforced by the handlers through
// go-playground/validator.

type Register struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ArticleCreate struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required"`
}

type ArticleUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
}

type CategoryCreate struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

type ChatMessage struct {
	Message string `json:"message" validate:"required"`
}

type GeneratePrompt struct {
	Text string `json:"text" validate:"required"`
}
