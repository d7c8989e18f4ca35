package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeScheduleSaved = "schedule_saved"

type ScheduleSavedMailData struct {
	Month         int `json:"month"`
	Year          int `json:"year"`
	Days          int `json:"days"`
	StaffedShifts int `json:"staffedShifts"`
	OpenShifts    int `json:"openShifts"`
}
