/*
 * options.go, part of gotlsmd.
 *
 *
 * Copyright 2026 The gotlsmd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package tlsmd

import (
	"io"
	"runtime"

	"github.com/tlsmd/gotlsmd/tls"
	"gopkg.in/yaml.v3"
)

//OriginPolicy decides how the libration origin of each segment fit is
//handled. The original numeric convention is ambiguous on this point, so it
//is an explicit knob rather than a hardwired choice.
type OriginPolicy string

const (
	//OriginAuto fixes the origin at the weighted centroid when anisotropic
	//data is available and optimizes it otherwise. The anisotropic model
	//family is closed under origin shifts, so nothing is lost by pinning
	//the origin there; the reduced isotropic model does depend on it.
	OriginAuto OriginPolicy = "auto"
	//OriginCentroid always fixes the origin at the weighted centroid.
	OriginCentroid OriginPolicy = "centroid"
	//OriginFit always optimizes the origin (nonlinear refinement).
	OriginFit OriginPolicy = "fit"
)

//Options collects the parameters of a chain analysis.
type Options struct {
	//MinLen is the minimum segment length in residues. Shorter ranges are
	//never fit: they carry too few degrees of freedom for the model.
	MinLen int `yaml:"minlen"`
	//MaxGroups is the largest partition size searched for.
	MaxGroups int `yaml:"maxgroups"`
	//Anisotropic selects the full-tensor model. Leave false when the
	//structure only carries isotropic displacement data.
	Anisotropic bool `yaml:"anisotropic"`
	//Origin is the libration-origin policy.
	Origin OriginPolicy `yaml:"origin"`
	//Cpus is the number of concurrent segment fits. Zero or negative means
	//all available cores.
	Cpus int `yaml:"cpus"`
	//RCond is the relative singular-value cutoff of the least-squares
	//pseudo-inverse.
	RCond float64 `yaml:"rcond"`
	//MaxIter and Tol control the nonlinear origin refinement.
	MaxIter int     `yaml:"maxiter"`
	Tol     float64 `yaml:"tol"`
}

//DefaultOptions returns reasonable settings for a protein chain: segments
//of at least 4 residues, partitions up to 20 groups, isotropic data.
func DefaultOptions() *Options {
	base := tls.DefaultConfig(false)
	r := new(Options)
	r.MinLen = 4
	r.MaxGroups = 20
	r.Anisotropic = false
	r.Origin = OriginAuto
	r.Cpus = runtime.NumCPU()
	r.RCond = base.RCond
	r.MaxIter = base.MaxIter
	r.Tol = base.Tol
	return r
}

//ReadOptions reads YAML-encoded options from r, on top of the defaults.
func ReadOptions(r io.Reader) (*Options, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, CError{err.Error(), []string{"ReadOptions"}}
	}
	o := DefaultOptions()
	if err := yaml.Unmarshal(buf, o); err != nil {
		return nil, CError{err.Error(), []string{"ReadOptions"}}
	}
	return o, nil
}

//Write writes the options to w as YAML.
func (O *Options) Write(w io.Writer) error {
	buf, err := yaml.Marshal(O)
	if err != nil {
		return CError{err.Error(), []string{"Options.Write"}}
	}
	if _, err := w.Write(buf); err != nil {
		return CError{err.Error(), []string{"Options.Write"}}
	}
	return nil
}

//fitConfig translates the options into a solver configuration.
func (O *Options) fitConfig() tls.Config {
	c := tls.DefaultConfig(O.Anisotropic)
	switch O.Origin {
	case OriginCentroid:
		c.OptimizeOrigin = false
	case OriginFit:
		c.OptimizeOrigin = true
	}
	if O.RCond > 0 {
		c.RCond = O.RCond
	}
	if O.MaxIter > 0 {
		c.MaxIter = O.MaxIter
	}
	if O.Tol > 0 {
		c.Tol = O.Tol
	}
	return c
}

//validate rejects settings no analysis can run with.
func (O *Options) validate() error {
	if O.MinLen < 1 {
		return CError{"minimum segment length must be at least 1", []string{"Options.validate"}}
	}
	if O.MaxGroups < 1 {
		return CError{"maximum group count must be at least 1", []string{"Options.validate"}}
	}
	switch O.Origin {
	case OriginAuto, OriginCentroid, OriginFit, "":
	default:
		return CError{"unknown origin policy: " + string(O.Origin), []string{"Options.validate"}}
	}
	return nil
}
