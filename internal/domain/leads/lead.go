package leads

// Email verification status tags as delivered by the external verification
// service. Anything else falls into the "unknown" bucket when reporting.
const (
	EmailStatusOK        = "ok:email_ok"
	EmailStatusIsRole    = "risky:is_role"
	EmailStatusAcceptAll = "risky:accept_all"
	EmailStatusUnknown   = "unknown"
)

// EmailStatusOrder fixes the presentation order of the email-status
// distribution. The unknown bucket always comes last.
var EmailStatusOrder = []string{EmailStatusOK, EmailStatusIsRole, EmailStatusAcceptAll}
