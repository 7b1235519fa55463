package failure

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English catalog maps them onto themselves.
const (
	MsgSessionExpired  = "Session expired. Please log in again."
	MsgForbidden       = "You do not have permission to perform this action."
	MsgValidation      = "Please correct the highlighted fields."
	MsgNetwork         = "Unable to reach the server. Please try again."
	MsgNotFound        = "The requested record no longer exists."
	MsgUnknown         = "Something went wrong. Please try again."
	MsgPartialSuccess  = "%s updated but role change failed: %s"
	MsgBusy            = "Another request for this record is still running."
	MsgConfirmMismatch = "The confirmation does not match %q."
	MsgInvalidLogin    = "Invalid username or password."
	MsgFieldRequired   = "%s is required."
	MsgFieldMinLength  = "%s must be at least %d characters."
	MsgFieldEmail      = "Please enter a valid email address."
	MsgFieldRole       = "You can not assign the role %s."
	MsgFieldDate       = "%s must be a date (yyyy-mm-dd)."
	MsgFieldStatus     = "Unknown status %s."
	MsgNothingToUpdate = "Nothing to update."
	MsgFieldNotAllowed = "You can not change %s."
	MsgFieldAssignee   = "The selected user does not have the role %s."
	MsgLoadWorkflows   = "Failed to load workflows. Please try again."
	MsgLoadUsers       = "Failed to load users. Please try again."
	MsgWorkflowCreated = "Workflow created."
	MsgWorkflowUpdated = "Workflow updated."
	MsgWorkflowDeleted = "Workflow deleted."
	MsgUserCreated     = "User created."
	MsgUserUpdated     = "User updated."
	MsgUserDeleted     = "User deleted."
	MsgRegistered      = "Registration successful. Please log in."
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

var german = map[string]string{
	MsgSessionExpired:  "Sitzung abgelaufen. Bitte melden Sie sich erneut an.",
	MsgForbidden:       "Sie haben keine Berechtigung für diese Aktion.",
	MsgValidation:      "Bitte korrigieren Sie die markierten Felder.",
	MsgNetwork:         "Der Server ist nicht erreichbar. Bitte versuchen Sie es erneut.",
	MsgNotFound:        "Der angeforderte Datensatz existiert nicht mehr.",
	MsgUnknown:         "Etwas ist schiefgelaufen. Bitte versuchen Sie es erneut.",
	MsgPartialSuccess:  "%s aktualisiert, aber die Rollenänderung ist fehlgeschlagen: %s",
	MsgBusy:            "Eine andere Anfrage für diesen Datensatz läuft noch.",
	MsgConfirmMismatch: "Die Bestätigung stimmt nicht mit %q überein.",
	MsgInvalidLogin:    "Ungültiger Benutzername oder ungültiges Passwort.",
	MsgFieldRequired:   "%s ist erforderlich.",
	MsgFieldMinLength:  "%s muss mindestens %d Zeichen lang sein.",
	MsgFieldEmail:      "Bitte geben Sie eine gültige E-Mail-Adresse ein.",
	MsgFieldRole:       "Sie können die Rolle %s nicht vergeben.",
	MsgFieldDate:       "%s muss ein Datum sein (jjjj-mm-tt).",
	MsgFieldStatus:     "Unbekannter Status %s.",
	MsgNothingToUpdate: "Keine Änderungen.",
	MsgFieldNotAllowed: "Sie können %s nicht ändern.",
	MsgFieldAssignee:   "Der ausgewählte Benutzer hat nicht die Rolle %s.",
	MsgLoadWorkflows:   "Workflows konnten nicht geladen werden. Bitte versuchen Sie es erneut.",
	MsgLoadUsers:       "Benutzer konnten nicht geladen werden. Bitte versuchen Sie es erneut.",
	MsgWorkflowCreated: "Workflow angelegt.",
	MsgWorkflowUpdated: "Workflow aktualisiert.",
	MsgWorkflowDeleted: "Workflow gelöscht.",
	MsgUserCreated:     "Benutzer angelegt.",
	MsgUserUpdated:     "Benutzer aktualisiert.",
	MsgUserDeleted:     "Benutzer gelöscht.",
	MsgRegistered:      "Registrierung erfolgreich. Bitte melden Sie sich an.",
}

func init() {
	for key, msg := range german {
		_ = message.SetString(language.German, key, msg)
		_ = message.SetString(language.English, key, key)
	}
}

// Printer returns a message printer for the best match of an Accept-Language header.
// Unknown or empty headers fall back to English.
func Printer(acceptLanguage string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()

	switch base.String() {
	case "de":
		return message.NewPrinter(language.German)
	default:
		return message.NewPrinter(language.English)
	}
}
