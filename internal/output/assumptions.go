package output

// DefaultAssumptions lists the simplifications behind every estimate.
var DefaultAssumptions = []string{
	"Federal brackets and standard deduction are the built-in tax-year tables, not indexed",
	"Capital gains and qualified dividends are taxed at one flat preferential rate",
	"State tax is a single flat rate applied to ordinary and preferential income",
	"IRMAA tier is chosen from this year's MAGI; Part B and Part D add-ons are monthly",
	"Roth withdrawals are tax-free and excluded from MAGI",
	"Fill lower brackets with traditional withdrawals before crossing into a higher one",
}
