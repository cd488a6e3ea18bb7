package models

// LeadStatus is a stage of the sales pipeline.
type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadContacted LeadStatus = "Contacted"
	LeadMeeting   LeadStatus = "Meeting"
	LeadConverted LeadStatus = "Converted"
)

// LeadPipeline lists pipeline stages in display order.
var LeadPipeline = []LeadStatus{LeadNew, LeadContacted, LeadMeeting, LeadConverted}

// DefaultLeadSource is used when a lead is created without a channel.
const DefaultLeadSource = "Instagram"

// Lead is a prospective student persisted under crm_leads.
type Lead struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Source string     `json:"source"`
	Status LeadStatus `json:"status"`
	Email  string     `json:"email"`
}

func (l Lead) GetID() string { return l.ID }

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Search string
	Status LeadStatus
}

// LeadStage is one column of the pipeline board.
type LeadStage struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
	Leads  []Lead     `json:"leads"`
}
