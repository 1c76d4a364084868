// Package sanitizer normalizes user input before validation and storage.
//
// All normalization functions are idempotent. Invalid input yields an empty
// string or slice rather than an error so the validator reports it.
//
// Normalization includes:
//   - Phone numbers: E.164, parsed against the configured default region
//   - Emails: trimmed and lower-cased
//   - Free text: whitespace collapsed and trimmed
//   - Tags, pages and keywords: lower-cased and de-duplicated
//   - Proof references: URLs forced to https, plain reference numbers upper-cased
//   - Amounts: rounded to centavos
package sanitizer
