package domain

type Expense struct {
	ID            int64   `db:"id" json:"id"`
	Date          string  `db:"date" json:"date"`
	IssuedTo      string  `db:"issued_to" json:"issuedTo"`
	Description   string  `db:"description" json:"description"`
	PaymentMethod string  `db:"payment_method" json:"paymentMethod"`
	ExpenseType   string  `db:"expense_type" json:"expenseType"`
	Amount        float64 `db:"amount" json:"amount"`
	AuthorisedBy  string  `db:"authorised_by" json:"authorisedBy"`
	CreatedAt     string  `db:"created_at" json:"createdAt,omitempty"`
}
