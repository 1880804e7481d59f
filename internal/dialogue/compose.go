package dialogue

import (
	"fmt"
	"strings"
)

// SupportEmail is offered when a report could not be stored.
const SupportEmail = "itsupport@heartfulness.org"

const formsURL = "https://bit.ly/hfn-event-summary-submit"

// Summary is the normalized view of a complete report shown for confirmation.
type Summary struct {
	Name        string
	Type        string
	Count       int
	Date        string
	Institution string
	City        string
}

// Welcome is the greeting of a new conversation.
func Welcome() string {
	return "Greetings!\nYou can also upload event data with Google forms here: " + formsURL + "\n" + promptEventType
}

// Confirm asks the coordinator to confirm a complete report.
func Confirm(s Summary) string {
	return fmt.Sprintf("Okay, %d attended %s on %s at %s in %s, Is this correct %s? Please reply with 'yes' or 'no'.",
		s.Count, s.Type, s.Date, s.Institution, s.City, s.Name)
}

// Retry re-asks a field whose previous answer could not be understood.
func Retry(prompt string) string {
	return "Sorry, I could not understand that answer.\n" + prompt
}

// ThankYou acknowledges a stored report. contact is omitted when empty.
func ThankYou(contact string) string {
	var b strings.Builder
	b.WriteString("Thanks for submitting the information and all the best.\n\n")
	b.WriteString("Please submit the complete feedback with attendee information (if available) at our Events Portal: events.heartfulness.org\n\n")
	b.WriteString("You can view the latest reports on Heartfulness Connect activities here: http://bit.ly/hfn-connect-report\n\n")
	b.WriteString("If you like this app, please inform other coordinators to use the app by sending the following *WhatsApp message to +14155238886*:\n*join harlequin-tuatara*\n\n")
	b.WriteString("Or if you prefer *Telegram*, start a chat with @hfn_event_bot to use this app\n\n")
	if contact != "" {
		b.WriteString("Please contact " + contact + " for any questions or to send photos of the event.\n\n")
	}
	b.WriteString("Please email high resolution photos to photos@heartfulness.org or upload them to https://drive.google.com/drive/folders/10VMvrv4tZMm1MjqoQ6dtqZWNputWCP-p.\n\n")
	b.WriteString("For any help or feedback on this application, please email it@heartfulness.org.")
	return b.String()
}

// Apology reports a report that could not be stored.
func Apology() string {
	return "Looks like we had some problem capturing this information. This could be due to some internal error. Can you please email " +
		SupportEmail + " with the screenshot? Thanks and apologies for the inconvenience."
}

// Declined answers a coordinator who rejected the summary.
func Declined() string {
	return "No problem, let's start over. Say \"hi\" whenever you are ready to report the event again."
}

// NothingToConfirm answers a confirmation with no pending report.
func NothingToConfirm() string {
	return "I don't have an event report waiting for confirmation. Let's start again."
}
