package model

// StorageElement is the attribute set shared by folders and files. The database
// can't store a base type polymorphically, so Folder and File live in separate
// tables and each satisfy this interface instead.
type StorageElement interface {
	GetID() int
	GetName() string
	GetOwnerID() int

	// GetParentID returns the id of the containing folder, or 0 for a root folder.
	GetParentID() int

	IsDir() bool
}
