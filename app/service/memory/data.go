package memory

type Category string

const (
	Identity      Category = "Identity"
	AcademicScore Category = "Academic Score"
	Goal          Category = "Goal"
	Struggle      Category = "Struggle"
)

// Fact is a single extracted piece of knowledge about the user.
type Fact struct {
	Category Category `json:"category"`
	Value    string   `json:"value"`
}

// Extraction is the outcome of running the rules over one utterance.
type Extraction struct {
	Reset bool
	Facts []Fact
}
