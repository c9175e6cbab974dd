// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"math"
	"sort"
	"unicode/utf8"
)

// Vectorizer turns documents into a dense document-term matrix.
type Vectorizer interface {
	FitTransform(docs []string) [][]float64
}

// CountVectorizer produces raw term counts. Terms are tokens of at least
// two characters; the vocabulary is sorted.
type CountVectorizer struct {
	Preprocess func(string) string
}

// TFIDFVectorizer weights counts by smoothed inverse document frequency,
// idf = ln((1+n)/(1+df)) + 1, and L2-normalizes each row.
type TFIDFVectorizer struct {
	Preprocess func(string) string
}

// FitTransform implements Vectorizer.
func (v CountVectorizer) FitTransform(docs []string) [][]float64 {
	m, _ := countMatrix(docs, v.Preprocess)
	return m
}

// FitTransform implements Vectorizer.
func (v TFIDFVectorizer) FitTransform(docs []string) [][]float64 {
	m, df := countMatrix(docs, v.Preprocess)
	n := float64(len(docs))
	idf := make([]float64, len(df))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+float64(d))) + 1
	}
	for _, row := range m {
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for j := range row {
			row[j] /= norm
		}
	}
	return m
}

// countMatrix returns term counts per document and document frequency per
// term over a sorted vocabulary.
func countMatrix(docs []string, preprocess func(string) string) ([][]float64, []int) {
	tokenized := make([][]string, len(docs))
	vocab := make(map[string]int)
	for i, doc := range docs {
		if preprocess != nil {
			doc = preprocess(doc)
		}
		for _, tok := range Tokenize(doc) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			tokenized[i] = append(tokenized[i], tok)
			vocab[tok] = 0
		}
	}

	terms := make([]string, 0, len(vocab))
	for t := range vocab {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for j, t := range terms {
		vocab[t] = j
	}

	m := make([][]float64, len(docs))
	df := make([]int, len(terms))
	for i, toks := range tokenized {
		m[i] = make([]float64, len(terms))
		for _, tok := range toks {
			j := vocab[tok]
			if m[i][j] == 0 {
				df[j]++
			}
			m[i][j]++
		}
	}
	return m, df
}
