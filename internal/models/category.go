package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a node of the browse tree. ParentID is a weak reference:
// deleting a parent leaves its children untouched.
type Category struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name" validate:"required,max=100"`
	Icon        string              `json:"icon,omitempty" bson:"icon,omitempty"`
	Description string              `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	ParentID    *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
}
