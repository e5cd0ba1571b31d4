package models

import "strings"

// Content is the row shape shared by the draft and published tables of both
// blogs and services. Body holds the blog "content" or the service
// "description".
type Content struct {
	Base
	Slug            string  `gorm:"not null" json:"slug"`
	Title           string  `gorm:"not null" json:"title"`
	Body            string  `gorm:"type:text;not null" json:"body"`
	Category        string  `gorm:"not null" json:"category"`
	Image           *string `json:"image"`
	MetaTitle       string  `json:"metaTitle"`
	MetaDescription string  `json:"metaDescription"`
	FocusKeyword    string  `json:"focusKeyword"`
}

// ImageURL returns the image reference or "".
func (c *Content) ImageURL() string {
	if c == nil || c.Image == nil {
		return ""
	}
	return *c.Image
}

// ContentPatch is a partial update. Nil fields are left untouched.
// An empty Image clears the reference.
type ContentPatch struct {
	Title           *string `json:"title"`
	Body            *string `json:"body"`
	Category        *string `json:"category"`
	Image           *string `json:"image"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
	FocusKeyword    *string `json:"focusKeyword"`
}

func (p ContentPatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Category == nil && p.Image == nil &&
		p.MetaTitle == nil && p.MetaDescription == nil && p.FocusKeyword == nil
}

// Apply merges the patch into c.
func (p ContentPatch) Apply(c *Content) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Body != nil {
		c.Body = *p.Body
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Image != nil {
		c.Image = normalizeImage(*p.Image)
	}
	if p.MetaTitle != nil {
		c.MetaTitle = *p.MetaTitle
	}
	if p.MetaDescription != nil {
		c.MetaDescription = *p.MetaDescription
	}
	if p.FocusKeyword != nil {
		c.FocusKeyword = *p.FocusKeyword
	}
}

// Columns returns the column assignments for the set fields.
func (p ContentPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Body != nil {
		cols["body"] = *p.Body
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Image != nil {
		cols["image"] = normalizeImage(*p.Image)
	}
	if p.MetaTitle != nil {
		cols["meta_title"] = *p.MetaTitle
	}
	if p.MetaDescription != nil {
		cols["meta_description"] = *p.MetaDescription
	}
	if p.FocusKeyword != nil {
		cols["focus_keyword"] = *p.FocusKeyword
	}
	return cols
}

func normalizeImage(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
