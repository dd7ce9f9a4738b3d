package render

import (
	"github.com/goliatone/go-intake/pkg/contract"
	"github.com/goliatone/go-intake/pkg/submission"
)

// Page title and fixed banner text.
const (
	Title          = "Booking Setup"
	SuccessMessage = "Success! Scenarios have been cloned, updated with client information, and placed in client's folder. Vapi tools and assistants have been created."
)

// BannerKind distinguishes outcome banners.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// View is the surface-neutral projection of a snapshot.
type View struct {
	Title  string            `json:"title"`
	Status submission.Status `json:"status"`
	Fields []FieldView       `json:"fields"`
	Submit SubmitView        `json:"submit"`
	Banner *Banner           `json:"banner,omitempty"`
}

// FieldView is one labelled input. Help is plain text; HelpHTML keeps the
// sanitized inline markup for HTML surfaces.
type FieldView struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Help     string `json:"help,omitempty"`
	HelpHTML string `json:"help_html,omitempty"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
	Secret   bool   `json:"secret,omitempty"`
}

// SubmitView is the submit trigger.
type SubmitView struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Banner is the outcome message shown after an attempt completes. Text is
// unescaped; each surface escapes it for its own medium.
type Banner struct {
	Kind BannerKind `json:"kind"`
	Text string     `json:"text"`
}

// Project maps a snapshot onto a View. Fields keep the form order; labels
// and help come from the contract and fall back to the field key.
func Project(snap submission.Snapshot, fields []contract.Field) View {
	view := View{
		Title:  Title,
		Status: snap.Status,
		Submit: SubmitView{
			Label:    snap.SubmitLabel(),
			Disabled: snap.SubmitDisabled(),
		},
		Banner: banner(snap),
	}

	byName := make(map[string]contract.Field, len(fields))
	for _, field := range fields {
		byName[field.Name] = field
	}

	for _, field := range submission.Fields() {
		name := string(field)
		fv := FieldView{
			Name:     name,
			Label:    name,
			Value:    snap.Form.Get(field),
			Required: true,
		}
		if cf, ok := byName[name]; ok {
			fv.Label = cf.Label
			fv.Help = PlainText(cf.Description)
			fv.HelpHTML = SanitizeHelp(cf.Description)
			fv.Secret = cf.Secret()
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

// ProjectDefault projects with the embedded contract's field metadata.
func ProjectDefault(snap submission.Snapshot) View {
	c, err := contract.Default()
	if err != nil {
		return Project(snap, nil)
	}
	return Project(snap, c.Fields)
}

func banner(snap submission.Snapshot) *Banner {
	switch snap.Status {
	case submission.StatusSuccess:
		return &Banner{Kind: BannerSuccess, Text: SuccessMessage}
	case submission.StatusError:
		text := snap.ErrorMessage
		if text == "" {
			text = submission.MessageFallback
		}
		return &Banner{Kind: BannerError, Text: text}
	default:
		return nil
	}
}
