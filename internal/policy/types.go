package policy

// Category classifies why a PolicyDecision rejected a path.
type Category string

const (
	CategoryHardcoded      Category = "hardcoded"
	CategoryUserExclude    Category = "user-exclude"
	CategoryGitignore      Category = "gitignore"
	CategoryBinary         Category = "binary"
	CategorySize           Category = "size"
	CategoryIncludeMismatch Category = "include-mismatch"
)

// Decision is the result of evaluating a path against the policy cascade.
type Decision struct {
	ShouldIndex bool
	Reason      string
	Category    Category
}

func accept() Decision {
	return Decision{ShouldIndex: true}
}

func reject(cat Category, reason string) Decision {
	return Decision{ShouldIndex: false, Reason: reason, Category: cat}
}
