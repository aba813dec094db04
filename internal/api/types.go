package api

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/recipe-catalog/backend/internal/service"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the structured result of boundary validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// formList reads a repeated multipart field, also accepting a single value
// holding a JSON array, which is how several clients send list fields.
func formList(c *gin.Context, field string) []string {
	values := c.PostFormArray(field)
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(values[0]), &decoded); err == nil {
			values = decoded
		}
	}

	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// validateCreateRecipe checks the multipart form of POST /recipes and
// returns the typed service input or the per-field errors.
func validateCreateRecipe(c *gin.Context) (*service.CreateRecipeInput, ValidationErrors) {
	var errs ValidationErrors

	input := &service.CreateRecipeInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Ingredients: formList(c, "ingredients"),
		Steps:       formList(c, "steps"),
	}

	if input.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if len(input.Ingredients) == 0 {
		errs = append(errs, FieldError{Field: "ingredients", Message: "at least one ingredient is required"})
	}
	if len(input.Steps) == 0 {
		errs = append(errs, FieldError{Field: "steps", Message: "at least one step is required"})
	}

	category := c.PostForm("category")
	if category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	} else if id, err := primitive.ObjectIDFromHex(category); err != nil {
		errs = append(errs, FieldError{Field: "category", Message: "category must be a valid id"})
	} else {
		input.CategoryID = id
	}

	if region := c.PostForm("region"); region != "" {
		id, err := primitive.ObjectIDFromHex(region)
		if err != nil {
			errs = append(errs, FieldError{Field: "region", Message: "region must be a valid id"})
		} else {
			input.RegionID = &id
		}
	}

	if errs != nil {
		return nil, errs
	}
	return input, nil
}

// validateUpdateRecipe checks the multipart form of PUT /recipes/:id. Every
// field is optional; absent fields stay nil so the update leaves them alone.
func validateUpdateRecipe(c *gin.Context) (*service.UpdateRecipeInput, ValidationErrors) {
	var errs ValidationErrors
	input := &service.UpdateRecipeInput{}

	if name, ok := c.GetPostForm("name"); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "name must not be empty"})
		} else {
			input.Name = &name
		}
	}
	if description, ok := c.GetPostForm("description"); ok {
		description = strings.TrimSpace(description)
		input.Description = &description
	}

	// Lists replace the stored value wholesale, so an explicitly supplied
	// empty list is rejected rather than stored.
	if _, ok := c.GetPostFormArray("ingredients"); ok {
		input.Ingredients = formList(c, "ingredients")
		if len(input.Ingredients) == 0 {
			errs = append(errs, FieldError{Field: "ingredients", Message: "ingredients must not be empty"})
		}
	}
	if _, ok := c.GetPostFormArray("steps"); ok {
		input.Steps = formList(c, "steps")
		if len(input.Steps) == 0 {
			errs = append(errs, FieldError{Field: "steps", Message: "steps must not be empty"})
		}
	}

	if category, ok := c.GetPostForm("category"); ok {
		id, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			errs = append(errs, FieldError{Field: "category", Message: "category must be a valid id"})
		} else {
			input.CategoryID = &id
		}
	}
	if region, ok := c.GetPostForm("region"); ok {
		id, err := primitive.ObjectIDFromHex(region)
		if err != nil {
			errs = append(errs, FieldError{Field: "region", Message: "region must be a valid id"})
		} else {
			input.RegionID = &id
		}
	}

	if errs != nil {
		return nil, errs
	}
	return input, nil
}

// CreateNameRequest is the JSON body for category and region creation.
type CreateNameRequest struct {
	Name string `json:"name" binding:"required"`
}
