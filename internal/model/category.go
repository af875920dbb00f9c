package model

// Category names a bucket of questions
type Category string

const (
	// DefaultCategory is used when a match request does not name one
	DefaultCategory Category = "general_knowledge"

	// DefaultPoints is awarded for categories without a configured value
	DefaultPoints = 10
)

var categoryPoints = map[Category]int{
	"general_knowledge": 10,
	"science":           15,
	"history":           15,
	"geography":         10,
	"math":              10,
	"technology":        20,
	"sports":            10,
	"entertainment":     10,
}

// PointsFor returns the points awarded for winning a game in the category
func PointsFor(c Category) int {
	if p, ok := categoryPoints[c]; ok {
		return p
	}
	return DefaultPoints
}
