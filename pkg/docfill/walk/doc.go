// Package walk enumerates every paragraph of a document in the order the
// template engine processes them, including paragraphs inside arbitrarily
// nested tables and in the header and footer parts. It depends only on the
// document model and performs no evaluation of its own.
package walk
