/*
Copyright © 2026 the nshmp-haz-go authors.
This file is part of nshmp-haz-go.

nshmp-haz-go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nshmp-haz-go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nshmp-haz-go.  If not, see <http://www.gnu.org/licenses/>.
*/

package mfd

import (
	"fmt"
	"math"
)

// Characteristic is a single-magnitude MFD: one bin, with a rate either
// given explicitly or derived from seismic-moment balance.
type Characteristic struct {
	Mag  float64
	Rate float64
}

// NewCharacteristic builds a Characteristic MFD with an explicit rate.
func NewCharacteristic(mag, rate float64) (*Characteristic, error) {
	c := &Characteristic{Mag: mag, Rate: rate}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// NewCharacteristicFromMoment builds a Characteristic MFD whose rate is
// derived from a moment-balance: the total seismic moment rate
// momentRate (N*m/yr) released by events of magnitude mag with the
// Hanks-Kanamori moment relation M0 = 10^(1.5*M + 9.05) N*m.
func NewCharacteristicFromMoment(mag, momentRate float64) (*Characteristic, error) {
	if momentRate < 0 {
		return nil, fmt.Errorf("mfd: negative moment rate %g", momentRate)
	}
	m0 := hanksKanamoriMoment(mag)
	rate := momentRate / m0
	return NewCharacteristic(mag, rate)
}

func hanksKanamoriMoment(mag float64) float64 {
	// M0 = 10^(1.5*M + 9.05), in N*m.
	return math.Pow(10, 1.5*mag+9.05)
}

// Bins implements MFD.
func (c *Characteristic) Bins() []Bin {
	return []Bin{{Mag: c.Mag, Rate: c.Rate}}
}
