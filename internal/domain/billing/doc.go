// Package billing provides the subscription billing domain for the
// project management application.
//
// Key Aggregates:
//   - Plan: a priced offering with a billing cadence
//   - Subscription: a customer's enrollment in a plan
//   - Invoice: a billed amount with tax and discount breakdown
//
// Domain Services:
//   - CalculationService: pure pricing math (proration, tax, discount,
//     recurring-revenue metrics, refunds)
//
// All monetary math goes through the Money value object, which keeps
// amounts at exactly two decimal places. Proration and refund ratios use
// the fixed 30/365 day-count approximation from BillingCycle, while
// billing-date scheduling uses real calendar arithmetic; the two models
// are intentionally separate.
package billing
