package model

// MailSettings is the sender account and recipient used for low-stock reports.
// It is passed to the notifier on every call rather than read from globals.
type MailSettings struct {
	Sender    string `json:"sender"`
	Password  string `json:"-"`
	Recipient string `json:"recipient"`
}

// Complete reports whether a report can be addressed at all.
func (s MailSettings) Complete() bool {
	return s.Sender != "" && s.Recipient != ""
}
