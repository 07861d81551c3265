package course

type CreateCourseDTO struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

type UpdateCourseDTO struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url"`
}

type ModuleDTO struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	TextContent string `json:"text_content"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,min=0"`
}

type UpdateModuleDTO struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
	TextContent *string `json:"text_content"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=0"`
}

type ReorderModulesDTO struct {
	ModuleIDs []string `json:"module_ids" validate:"required,min=1,dive,uuid"`
}

type CourseSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Published    bool   `json:"published"`
	ModuleCount  int    `json:"module_count"`
}

func ToSummary(c *Course) CourseSummary {
	return CourseSummary{
		ID:           c.ID.String(),
		Title:        c.Title,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		Published:    c.Published,
		ModuleCount:  len(c.Modules),
	}
}
