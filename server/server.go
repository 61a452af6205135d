// Package server contains misc HTTP plumbing shared by device wrappers.
package server

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"

	"goji.io"
)

// FloatT is a struct holding a single float64 for JSON transport
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT is a struct holding a single int for JSON transport
type IntT struct {
	Int int `json:"int"`
}

// StrT is a struct holding a single string for JSON transport
type StrT struct {
	Str string `json:"str"`
}

// BoolT is a struct holding a single bool for JSON transport
type BoolT struct {
	Bool bool `json:"bool"`
}

// HumanPayload is a struct containing the basic types web users can
// deal with.  T selects which field is populated.
type HumanPayload struct {
	// T is the type of the payload
	T types.BasicKind

	// Int holds the value when T == types.Int
	Int int

	// Float holds the value when T == types.Float64
	Float float64

	// String holds the value when T == types.String
	String string

	// Bool holds the value when T == types.Bool
	Bool bool
}

// EncodeAndRespond writes the payload to w as a single-key JSON object,
// e.g. {"f64": 3.14}
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var err error
	switch hp.T {
	case types.Int:
		err = json.NewEncoder(w).Encode(IntT{Int: hp.Int})
	case types.Float64:
		err = json.NewEncoder(w).Encode(FloatT{F64: hp.Float})
	case types.String:
		err = json.NewEncoder(w).Encode(StrT{Str: hp.String})
	case types.Bool:
		err = json.NewEncoder(w).Encode(BoolT{Bool: hp.Bool})
	default:
		http.Error(w, fmt.Sprintf("unknown payload kind %v", hp.T), http.StatusInternalServerError)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("error encoding payload to json %q", err), http.StatusInternalServerError)
	}
}

// RouteTable maps goji patterns to handler funcs
type RouteTable map[goji.Pattern]http.HandlerFunc

// Bind attaches every route in the table to mux
func (rt RouteTable) Bind(mux *goji.Mux) {
	for p, h := range rt {
		mux.HandleFunc(p, h)
	}
}

// Endpoints lists the patterns in the table
func (rt RouteTable) Endpoints() []goji.Pattern {
	routes := make([]goji.Pattern, 0, len(rt))
	for p := range rt {
		routes = append(routes, p)
	}
	return routes
}
