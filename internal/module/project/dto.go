package project

// CreateProjectRequest creates a new project.
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateProjectRequest applies partial updates to a project.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}
