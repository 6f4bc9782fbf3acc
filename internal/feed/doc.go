// SPDX-License-Identifier: MIT

// Package feed is the companion server that streams magnitude vectors to
// renderers. Audio comes from a looping WAV file or a live PortAudio input,
// is analyzed with an FFT, and is published as {"d": [...]} over websocket
// at a fixed interval.
package feed
