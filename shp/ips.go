// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Ipoint holds integration point data: natural coordinates {r,s,t} and weight w
type Ipoint []float64

// R returns the natural coordinates
func (o Ipoint) R() []float64 { return o[:3] }

// W returns the weight
func (o Ipoint) W() float64 { return o[3] }

// gauss returns the Gauss-Legendre points and weights on [-1, 1]
func gauss(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	return
}

// GetIps returns the integration points of a given shape, with nip points
// per natural direction, for volume and faces
func GetIps(geoType string, nip int) (ips, ipsf []Ipoint, err error) {
	if nip < 1 {
		return nil, nil, chk.Err("number of integration points per direction must be positive. nip = %d", nip)
	}
	x, w := gauss(nip)
	switch geoType {
	case "qua4":
		for j := 0; j < nip; j++ {
			for i := 0; i < nip; i++ {
				ips = append(ips, Ipoint{x[i], x[j], 0, w[i] * w[j]})
			}
		}
		for i := 0; i < nip; i++ {
			ipsf = append(ipsf, Ipoint{x[i], 0, 0, w[i]})
		}
	case "hex8":
		for k := 0; k < nip; k++ {
			for j := 0; j < nip; j++ {
				for i := 0; i < nip; i++ {
					ips = append(ips, Ipoint{x[i], x[j], x[k], w[i] * w[j] * w[k]})
				}
			}
		}
		for j := 0; j < nip; j++ {
			for i := 0; i < nip; i++ {
				ipsf = append(ipsf, Ipoint{x[i], x[j], 0, w[i] * w[j]})
			}
		}
	default:
		return nil, nil, chk.Err("cannot find integration points for geometry %q", geoType)
	}
	return
}
