package balance

import "github.com/shopspring/decimal"

// Cost is an exact decimal monetary amount. No floating-point type ever
// represents cost; every arithmetic step goes through shopspring/decimal
// so that repeated propagation cannot accumulate rounding drift.
type Cost = decimal.Decimal

// ZeroCost is the additive identity.
var ZeroCost = decimal.Zero
