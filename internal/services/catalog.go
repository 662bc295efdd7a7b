package services

// CatalogStore serves the seeded, read-only question catalogs.
type CatalogStore interface {
	ListMBTIQuestions() ([]*MBTIQuestion, error)
	ListRIASECTypes() ([]*RIASECType, error)
	ListRIASECQuestions() ([]*RIASECQuestion, error)
	ListRIASECOptions() ([]*RIASECOption, error)
	SeedCatalog(questions []*MBTIQuestion, types []*RIASECType, riasecQuestions []*RIASECQuestion, options []*RIASECOption) error
}

// MBTICatalog is the full type-inventory questionnaire payload.
type MBTICatalog struct {
	Questions []*MBTIQuestion `json:"questions"`
	Total     int             `json:"total"`
}

// RIASECCatalog is the full interest-inventory questionnaire payload.
// Every question shares the same Likert option set.
type RIASECCatalog struct {
	Types     []*RIASECType     `json:"types"`
	Questions []*RIASECQuestion `json:"questions"`
	Options   []*RIASECOption   `json:"options"`
	Total     int               `json:"total"`
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Seed loads the fixed question sets into the store. Stores implement it
// idempotently, so calling at every boot is safe.
func (s *CatalogService) Seed() error {
	return s.store.SeedCatalog(DefaultMBTIQuestions(), DefaultRIASECTypes(), DefaultRIASECQuestions(), DefaultRIASECOptions())
}

func (s *CatalogService) MBTIQuestions() (*MBTICatalog, error) {
	questions, err := s.store.ListMBTIQuestions()
	if err != nil {
		return nil, err
	}
	return &MBTICatalog{Questions: questions, Total: len(questions)}, nil
}

func (s *CatalogService) RIASECQuestionnaire() (*RIASECCatalog, error) {
	types, err := s.store.ListRIASECTypes()
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListRIASECQuestions()
	if err != nil {
		return nil, err
	}
	options, err := s.store.ListRIASECOptions()
	if err != nil {
		return nil, err
	}
	return &RIASECCatalog{Types: types, Questions: questions, Options: options, Total: len(questions)}, nil
}
