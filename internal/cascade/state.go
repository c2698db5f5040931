package cascade

// State is the resolver's position in the cascade
type State int

const (
	// NoCategory: nothing selected yet
	NoCategory State = iota
	// CategorySelected: waiting for a subcategory
	CategorySelected
	// SubcategorySelected: the tier level is due but has no options yet
	SubcategorySelected
	// AwaitingSubSubCategory: outstation subcategory, tier hidden until a sub-subcategory is chosen
	AwaitingSubSubCategory
	// TierVisible: tier options shown, none chosen
	TierVisible
	// CarVisible: cab branch, tier chosen, waiting for a car
	CarVisible
	// Ready: every level required by the branch is set
	Ready
)

func (s State) String() string {
	switch s {
	case NoCategory:
		return "NoCategory"
	case CategorySelected:
		return "CategorySelected"
	case SubcategorySelected:
		return "SubcategorySelected"
	case AwaitingSubSubCategory:
		return "AwaitingSubSubCategory"
	case TierVisible:
		return "TierVisible"
	case CarVisible:
		return "CarVisible"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Level identifies one step of the hierarchy
type Level int

const (
	LevelCategory Level = iota
	LevelSubcategory
	LevelSubSubCategory
	LevelTier
	LevelCar
)

func (l Level) String() string {
	switch l {
	case LevelCategory:
		return "category"
	case LevelSubcategory:
		return "subCategory"
	case LevelSubSubCategory:
		return "subSubCategory"
	case LevelTier:
		return "tier"
	case LevelCar:
		return "car"
	default:
		return "unknown"
	}
}
