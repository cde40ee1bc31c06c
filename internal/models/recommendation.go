// internal/models/recommendation.go
package models

// DataSources is attached to every recommendation.
var DataSources = []string{
	"NSDC Skills Database",
	"MSME Success Stories",
	"Government Schemes Data",
	"Industry Reports",
}

// Recommendation is one enriched business suggestion returned to the caller.
type Recommendation struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	BusinessType    Category      `json:"businessType"`
	ConfidenceScore int           `json:"confidenceScore"`
	Score           float64       `json:"score"`
	MLScore         *float64      `json:"mlScore,omitempty"`
	Fallback        bool          `json:"fallback,omitempty"`
	Resources       []Resource    `json:"resources"`
	Financials      FinancialPlan `json:"financials"`
	CaseStudies     []CaseStudy   `json:"caseStudies"`
	WorkforcePlan   WorkforcePlan `json:"workforcePlan"`
	Mentors         []Mentor      `json:"mentors"`
	DataSources     []string      `json:"dataSources"`
}

// QuickRecommendation is the reduced shape served by the quick endpoint.
type QuickRecommendation struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	BusinessType    Category `json:"businessType"`
	Score           float64  `json:"score"`
	ConfidenceScore int      `json:"confidenceScore"`
}

// AlgorithmInfo describes the scoring variant that produced a response.
type AlgorithmInfo struct {
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Features     []string `json:"features"`
	TrainingData string   `json:"trainingData"`
	Accuracy     string   `json:"accuracy"`
}

type Resource struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
	Level    string `json:"level,omitempty"`
}

type CaseStudy struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Story       string `json:"story"`
	Achievement string `json:"achievement"`
}

// Milestones holds month 3, 6 and 12 targets.
type Milestones struct {
	Month3  string `json:"month3"`
	Month6  string `json:"month6"`
	Month12 string `json:"month12"`
}

// WorkforcePlan zero value serializes as {}.
type WorkforcePlan struct {
	InitialTeamSize int         `json:"initialTeamSize,omitempty"`
	Roles           []string    `json:"roles,omitempty"`
	GrowthPlan      *Milestones `json:"growthPlan,omitempty"`
	SoloTips        []string    `json:"soloTips,omitempty"`
}

// FinancialPlan zero value serializes as {}.
type FinancialPlan struct {
	Investment         string      `json:"investment,omitempty"`
	ProfitMargin       string      `json:"profit_margin,omitempty"`
	BreakEven          string      `json:"break_even,omitempty"`
	MonthlyIncome      string      `json:"monthly_income,omitempty"`
	EquipmentCost      string      `json:"equipment_cost,omitempty"`
	OperationalExpense string      `json:"operational_expense,omitempty"`
	InitialSalesVolume string      `json:"initialSalesVolume,omitempty"`
	ScalingStrategy    *Milestones `json:"scalingStrategy,omitempty"`
	ToolsNeeded        []string    `json:"toolsNeeded,omitempty"`
}

type Mentor struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	ProfilePic     string              `json:"profilePic,omitempty"`
	Specialization []string            `json:"specialization"`
	BusinessType   Category            `json:"businessType"`
	Experience     string              `json:"experience"`
	Rating         float64             `json:"rating"`
	TotalMentees   int                 `json:"totalMentees"`
	Fees           MentorFees          `json:"fees"`
	Contact        MentorContact       `json:"contact"`
	Address        MentorAddress       `json:"address"`
	Availability   MentorAvailability  `json:"availability"`
	Languages      []string            `json:"languages"`
	Bio            string              `json:"bio"`
	Achievements   []string            `json:"achievements"`
	Testimonials   []MentorTestimonial `json:"testimonials"`
}

type MentorFees struct {
	Consultation string `json:"consultation"`
	Monthly      string `json:"monthly"`
	Package      string `json:"package"`
}

type MentorContact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type MentorAddress struct {
	City  string `json:"city"`
	State string `json:"state"`
	Area  string `json:"area"`
}

type MentorAvailability struct {
	Mode     string   `json:"mode"`
	Timings  []string `json:"timings"`
	Timezone string   `json:"timezone"`
}

type MentorTestimonial struct {
	Name     string  `json:"name"`
	Business string  `json:"business"`
	Feedback string  `json:"feedback"`
	Rating   float64 `json:"rating"`
}
