package domain

// Document is a schema-free record as held by the document engine
type Document map[string]interface{}

// Collection is a named set of documents keyed by their _id
type Collection struct {
	Name      string              `json:"name"`
	Documents map[string]Document `json:"documents"`
}

// NewCollection creates an empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}
