package model

// WorldRequest describes the world a caller wants generated
type WorldRequest struct {
	Description string `validate:"min=10"`
	Type        string
	MagicSystem string
}

// CreatureRequest describes the creature a caller wants generated
type CreatureRequest struct {
	Description  string `validate:"min=10"`
	Type         string
	PowerLevel   int `validate:"min=1,max=10"`
	Intelligence int `validate:"min=1,max=10"`
	WorldID      *WorldID
}

// StoryRequest describes the story a caller wants generated
type StoryRequest struct {
	Theme        string
	Protagonist  string
	Setting      string
	PlotElements []string
	WorldID      *WorldID
	CreatureIDs  []CreatureID
}

// UserRequest describes an account to register
type UserRequest struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=6"`
	Email    string `validate:"omitempty,email"`
}
