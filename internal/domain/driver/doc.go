// Package driver asks a chat site a question through the active browser page
// and scrapes the reply.
//
// Every element lookup walks an ordered list of candidate selectors taken
// from the site profile; the first selector with a match wins:
//   - input: the last element matched is filled with the question
//   - submit: the first element matched is clicked; no match is tolerated
//   - answer: the first element with non-empty trimmed text is the reply
//
// Waits are time based. With StrategyPoll the response wait ends early once
// the answer text stops changing, never later than the fixed delay.
package driver
