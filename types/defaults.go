package types

// Default boilerplate applied to new documents. Callers that need
// different text (e.g. from user configuration) overwrite the fields
// after New; these are the built-in fallbacks.

const invoiceEndnote = "Make all checks payable to Overlook Mechanical Services. \n" +
	"Total due in 15 days. Overdue accounts subject to a service charge of 1% per month. \n" +
	" Thank you for your business!"

const proposalEndnote = "Overlook Mechanical Services\n" +
	"Bethland Bosse\n" +
	"THANK YOU FOR YOUR BUSINESS!"

// DefaultDisclaimer is the scope-of-work boilerplate for new proposals
const DefaultDisclaimer = "Overlook Mechanical Services:\n" +
	"Proposes the following scope of work to be done, and to include the cost of permits and inspections.\n" +
	"This quote does not include any fixtures."

// DefaultEndnote returns the built-in endnote text for a document type
func DefaultEndnote(t DocType) string {
	if t == Proposal {
		return proposalEndnote
	}
	return invoiceEndnote
}
