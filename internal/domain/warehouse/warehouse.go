// Package warehouse names the star-schema tables the reporting queries, the
// datetime normalizer and the loader operate on. The table shapes themselves
// live in the schema migrations; this package carries the identifiers and
// domain constants shared across the packages that touch the store.
package warehouse

// Table names as they exist in the store.
const (
	TableDimCustomer     = "dim_customer"
	TableDimAccount      = "dim_account"
	TableDimBranch       = "dim_branch"
	TableDimDate         = "dim_date"
	TableDimTime         = "dim_time"
	TableFactTransaction = "fact_transaction"
)

// DepositType is the transaction type credited to an account; every other
// type is treated as a debit.
const DepositType = "Deposit"

// ActiveStatus is the canonical account status eligible for balance reporting.
const ActiveStatus = "ACTIVE"

// dependents mirrors the foreign keys declared in the schema migrations:
// dim_account references dim_customer, fact_transaction references
// dim_account and dim_branch.
var dependents = map[string][]string{
	TableDimCustomer: {TableDimAccount, TableFactTransaction},
	TableDimAccount:  {TableFactTransaction},
	TableDimBranch:   {TableFactTransaction},
}

// Dependents returns the tables a cascading truncate of table empties through
// foreign keys, directly or transitively. The result is nil for tables
// nothing references.
func Dependents(table string) []string {
	return dependents[table]
}
