package uuid

import gonanoid "github.com/matoous/go-nanoid"

// CertificateAlphabet upper case letters and digits without look-alikes (0/O, 1/I),
// certificate ids get read aloud and typed in from paper
const CertificateAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Generator UUID generator interface
type Generator interface {
	Generate() (string, error)
}

// NanoIDGenerator UUID implementation using NanoID
type NanoIDGenerator struct {
	Length   int
	Alphabet string // empty means the nanoid default alphabet
}

var _ Generator = &NanoIDGenerator{}

// NewNanoIDGenerator create a new `NanoIDGenerator` instance
func NewNanoIDGenerator(length int, alphabet string) *NanoIDGenerator {
	if length < 1 {
		panic("length must be larger than 1")
	}
	return &NanoIDGenerator{Length: length, Alphabet: alphabet}
}

// Generate generate UUID
func (ns *NanoIDGenerator) Generate() (string, error) {
	if ns.Alphabet == "" {
		return gonanoid.Nanoid(ns.Length)
	}
	return gonanoid.Generate(ns.Alphabet, ns.Length)
}
