package usecase

// Intake form variants. The short form is the default landing page, the long
// form sits behind the QR code handed out at the booth.
const (
	VariantWelcome = "welcome"
	VariantQR      = "qr"
)

// Step names as the client submits them.
const (
	StepEmail        = "email"
	StepName         = "name"
	StepOrganization = "organization"
	StepTeammate     = "teammate"
	StepXHandle      = "xhandle"
	StepNote         = "note"
	StepThanks       = "thanks"
)

type LocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type SubmitEmailInput struct {
	Email    string         `json:"email"`
	Variant  string         `json:"variant,omitempty"`
	Location *LocationInput `json:"location,omitempty"`
}

type SubmitEmailOutput struct {
	LeadID   string `json:"leadId"`
	Created  bool   `json:"created"`
	NextStep string `json:"nextStep"`
}

type SubmitStepInput struct {
	LeadID  string `json:"-"`
	Variant string `json:"variant,omitempty"`
	Step    string `json:"step"`
	Value   string `json:"value"`
}

type SubmitStepOutput struct {
	NextStep string `json:"nextStep"`
}

type SaveAnnotationInput struct {
	LeadID     string   `json:"-"`
	Text       string   `json:"text"`
	AudioURL   string   `json:"audioUrl,omitempty"`
	PhotoURL   string   `json:"photoUrl,omitempty"`
	Identities []string `json:"identities,omitempty"`
	CreatedBy  string   `json:"-"`
}

type ManualLeadInput struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	XHandle      string `json:"xHandle,omitempty"`
	Note         string `json:"note,omitempty"`
	CreatedBy    string `json:"-"`
}

// ParsedAnalysis is the structured result of the second research call.
type ParsedAnalysis struct {
	RelevanceScore      int      `json:"relevanceScore"`
	SuggestedIdentities []string `json:"suggestedIdentities"`
	Analysis            string   `json:"analysis"`
}
