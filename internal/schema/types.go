package schema

// Spec is the canonical specification produced by the normalizer.
// Every field is always populated after normalization; fixed-count slices
// (follow-ups, flow, questions, risks, tests, next steps, layer guide) always
// hold exactly their required number of items.
type Spec struct {
	Summary      string           `json:"one_line_summary" yaml:"one_line_summary"`
	ProblemFrame ProblemFrame     `json:"problem_frame" yaml:"problem_frame"`
	Interview    Interview        `json:"interview_mode" yaml:"interview_mode"`
	Roles        []Role           `json:"users_and_roles" yaml:"users_and_roles"`
	Features     Features         `json:"core_features" yaml:"core_features"`
	Flow         []string         `json:"user_flow_steps" yaml:"user_flow_steps"`
	InputFields  []InputField     `json:"input_fields" yaml:"input_fields"`
	Permissions  []PermissionRule `json:"permission_matrix" yaml:"permission_matrix"`
	Ambiguities  Ambiguities      `json:"ambiguities" yaml:"ambiguities"`
	Risks        []string         `json:"risks" yaml:"risks"`
	Tests        []string         `json:"test_scenarios" yaml:"test_scenarios"`
	NextSteps    []string         `json:"next_steps_today" yaml:"next_steps_today"`
	Requests     RequestVariants  `json:"request_converter" yaml:"request_converter"`
	Impact       ImpactPreview    `json:"impact_preview" yaml:"impact_preview"`
	LayerGuide   []LayerEntry     `json:"layer_guide" yaml:"layer_guide"`
	Completeness Completeness     `json:"completeness" yaml:"completeness"`
}

// ProblemFrame is the five-slot problem definition.
type ProblemFrame struct {
	Who             string `json:"who" yaml:"who"`
	When            string `json:"when" yaml:"when"`
	What            string `json:"what" yaml:"what"`
	Why             string `json:"why" yaml:"why"`
	SuccessCriteria string `json:"success_criteria" yaml:"success_criteria"`
}

type Interview struct {
	FollowUps []string `json:"follow_up_questions" yaml:"follow_up_questions"`
}

type Role struct {
	Role        string `json:"role" yaml:"role"`
	Description string `json:"description" yaml:"description"`
}

type Features struct {
	Must []string `json:"must" yaml:"must"`
	Nice []string `json:"nice_to_have" yaml:"nice_to_have"`
}

type InputField struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Example string `json:"example" yaml:"example"`
}

// PermissionRule is one row of the role CRUD matrix.
type PermissionRule struct {
	Role   string `json:"role" yaml:"role"`
	Read   bool   `json:"read" yaml:"read"`
	Create bool   `json:"create" yaml:"create"`
	Update bool   `json:"update" yaml:"update"`
	Delete bool   `json:"delete" yaml:"delete"`
	Notes  string `json:"notes" yaml:"notes"`
}

type Ambiguities struct {
	Missing   []string `json:"missing_information" yaml:"missing_information"`
	Questions []string `json:"questions" yaml:"questions"`
}

// RequestVariants holds copy-ready change requests at three lengths.
type RequestVariants struct {
	Original string `json:"original" yaml:"original"`
	Short    string `json:"short" yaml:"short"`
	Standard string `json:"standard" yaml:"standard"`
	Detailed string `json:"detailed" yaml:"detailed"`
}

type ImpactPreview struct {
	Screens     []string `json:"screens" yaml:"screens"`
	Permissions []string `json:"permissions" yaml:"permissions"`
	Tests       []string `json:"tests" yaml:"tests"`
}

// LayerEntry describes one L1..L5 learning layer.
type LayerEntry struct {
	Layer  string `json:"layer" yaml:"layer"`
	Goal   string `json:"goal" yaml:"goal"`
	Output string `json:"output" yaml:"output"`
}

type Completeness struct {
	Score    int      `json:"score" yaml:"score"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Fixed slice lengths of the canonical Spec.
const (
	FollowUpCount  = 3
	FlowStepCount  = 5
	QuestionCount  = 3
	RiskCount      = 3
	TestCount      = 3
	NextStepCount  = 3
	LayerCount     = 5
	MaxStacksFrame = 3
)
