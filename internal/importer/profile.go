package importer

// profile describes the columns of one kind of import. Each field lists the
// normalized header names it may appear under.
type profile struct {
	name     string
	columns  map[string][]string
	required []string
}

func (p *profile) matches(cols colIndex) bool {
	for _, field := range p.required {
		if _, ok := cols[field]; !ok {
			return false
		}
	}

	return true
}

const (
	fieldMemberID   = "memberId"
	fieldFullName   = "fullName"
	fieldGender     = "gender"
	fieldContact    = "contactNumber"
	fieldEmail      = "email"
	fieldAddress    = "address"
	fieldDateJoined = "dateJoined"
	fieldPreference = "donationPreference"
	fieldExpected   = "expectedAmount"
	fieldType       = "type"
	fieldAmount     = "amount"
	fieldStatus     = "status"
	fieldDate       = "date"
	fieldKind       = "kind"
)

var rosterProfile = profile{
	name: "roster",
	columns: map[string][]string{
		fieldFullName:   {"fullname", "name", "membername"},
		fieldGender:     {"gender", "sex"},
		fieldContact:    {"contactnumber", "contact", "phone", "mobile"},
		fieldEmail:      {"email", "emailaddress"},
		fieldAddress:    {"address"},
		fieldDateJoined: {"datejoined", "joined", "joiningdate"},
		fieldPreference: {"donationpreference", "preference", "donationtype"},
		fieldExpected:   {"paymentamount", "expectedamount", "amount"},
	},
	required: []string{fieldFullName},
}

var ledgerProfile = profile{
	name: "ledger",
	columns: map[string][]string{
		fieldMemberID: {"memberid", "member"},
		fieldType:     {"type", "donationtype"},
		fieldAmount:   {"amount", "paymentamount"},
		fieldStatus:   {"status"},
		fieldDate:     {"date", "paymentdate"},
		fieldKind:     {"kind"},
	},
	required: []string{fieldMemberID, fieldType, fieldAmount},
}
