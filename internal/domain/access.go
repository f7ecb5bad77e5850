package domain

import "fmt"

// AccessType describes how a unit can be read by the current account.
type AccessType int

const (
	// AccessFree units can be read by anyone.
	AccessFree AccessType = iota
	// AccessTemporaryFree units are temporarily unlocked through "wait until free".
	AccessTemporaryFree
	// AccessWaitUntilFree units unlock once the user spends their WUF ticket.
	AccessWaitUntilFree
	// AccessPaywalled units must be bought.
	AccessPaywalled
	// AccessAlreadyOwned units were already bought by the account.
	AccessAlreadyOwned
)

// ParseAccessType maps the platform's two-letter use_type code prefix.
func ParseAccessType(code string) (AccessType, error) {
	if len(code) < 2 {
		return 0, fmt.Errorf("%q is not a valid access type", code)
	}

	switch code[:2] {
	case "FR":
		return AccessFree, nil
	case "RD":
		return AccessTemporaryFree, nil
	case "WF":
		return AccessWaitUntilFree, nil
	case "PM":
		return AccessPaywalled, nil
	case "AB":
		return AccessAlreadyOwned, nil
	default:
		return 0, fmt.Errorf("%q is not a valid access type", code)
	}
}

func (a AccessType) String() string {
	switch a {
	case AccessFree:
		return "free"
	case AccessTemporaryFree:
		return "temporary free"
	case AccessWaitUntilFree:
		return "wait until free"
	case AccessPaywalled:
		return "paywalled"
	case AccessAlreadyOwned:
		return "owned"
	default:
		return "unknown"
	}
}

// Downloadable reports whether units with this access type can be fetched
// by the current session.
func (a AccessType) Downloadable() bool {
	switch a {
	case AccessFree, AccessTemporaryFree, AccessAlreadyOwned:
		return true
	default:
		return false
	}
}
