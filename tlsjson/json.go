/*
 * json.go, part of gotlsmd.
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

//Package tlsjson serializes the results of a chain analysis for the
//external programs that turn them into reports, plots or refinement input.
//It is the outbound half of the interchange contract: this library never
//reads structure files, it only hands partitions over.
package tlsjson

import (
	"encoding/json"
	"io"

	tlsmd "github.com/tlsmd/gotlsmd"
	"github.com/tlsmd/gotlsmd/tls"
)

//Segment is a ready-to-serialize TLS group. Tensors are flattened to their
//independent components in the order 11, 22, 33, 12, 13, 23; the screw
//tensor of the anisotropic model keeps its reduced traceless form.
type Segment struct {
	Start    int
	End      int
	Residues int
	Status   string
	Residual float64
	Origin   [3]float64
	//anisotropic model, empty unless fitted
	T []float64 `json:",omitempty"`
	L []float64 `json:",omitempty"`
	S []float64 `json:",omitempty"`
	//isotropic model, empty unless fitted
	IT float64   `json:",omitempty"`
	IL []float64 `json:",omitempty"`
	IS []float64 `json:",omitempty"`
	//mean observed and model-predicted B factors over the segment
	MeanBisoObs float64
	MeanBisoTLS float64
}

//Partition is a ready-to-serialize partition into a fixed group count.
//Feasible is false (and Segments empty) when no tiling with exactly Groups
//segments exists.
type Partition struct {
	Groups   int
	Feasible bool
	Residual float64
	Segments []Segment `json:",omitempty"`
}

//Document is the full result of one chain analysis.
type Document struct {
	Chain      string
	Residues   int
	MinLen     int
	Partitions []Partition
}

//Error is the easily serializable error type of the package.
type Error struct {
	deco    []string
	Message string
	Func    string
}

//Error implements the error interface.
func (J *Error) Error() string {
	return J.Message
}

//Decorate adds dec to the decoration slice of the error, and returns the
//resulting slice. An empty dec only retrieves the current decorations.
func (J *Error) Decorate(dec string) []string {
	if dec != "" {
		J.deco = append(J.deco, dec)
	}
	return J.deco
}

//NewDocument converts a finished analysis into its serializable form.
func NewDocument(a *tlsmd.Analysis) *Document {
	d := &Document{
		Chain:    a.Chain.ID(),
		Residues: a.Chain.NumResidues(),
		MinLen:   a.Options.MinLen,
	}
	for k, p := range a.Partitions {
		jp := Partition{Groups: k + 1}
		if p != nil {
			jp.Feasible = true
			jp.Residual = p.Residual
			for _, s := range p.Segments {
				jp.Segments = append(jp.Segments, newSegment(a.Chain, s))
			}
		}
		d.Partitions = append(d.Partitions, jp)
	}
	return d
}

func newSegment(c *tlsmd.Chain, s *tlsmd.Segment) Segment {
	js := Segment{
		Start:       s.Start,
		End:         s.End,
		Residues:    s.Len(),
		Status:      s.Fit.Status.String(),
		Residual:    s.Fit.Residual,
		MeanBisoObs: s.MeanBisoObs(c),
		MeanBisoTLS: s.MeanBisoTLS(c),
	}
	if p := s.Fit.Aniso; p != nil {
		js.Origin = p.Origin
		js.T = append(js.T, p.T[:]...)
		js.L = append(js.L, p.L[:]...)
		js.S = append(js.S, p.S[:]...)
	}
	if p := s.Fit.Iso; p != nil {
		js.Origin = p.Origin
		js.IT = p.T
		js.IL = append(js.IL, p.L[:]...)
		js.IS = append(js.IS, p.S[:]...)
	}
	return js
}

//IsoParams rebuilds the isotropic model of the segment, or nil if none was
//fitted. Consumers that want predictions (per-residue B profiles, say) can
//evaluate it directly.
func (S *Segment) IsoParams() *tls.IsoParams {
	if S.IL == nil {
		return nil
	}
	p := &tls.IsoParams{T: S.IT, Origin: S.Origin}
	copy(p.L[:], S.IL)
	copy(p.S[:], S.IS)
	return p
}

//Send encodes the document as JSON and writes it to out.
func (D *Document) Send(out io.Writer) error {
	if err := json.NewEncoder(out).Encode(D); err != nil {
		return &Error{Message: err.Error(), Func: "Document.Send"}
	}
	return nil
}

//Read decodes a document from in.
func Read(in io.Reader) (*Document, error) {
	d := new(Document)
	if err := json.NewDecoder(in).Decode(d); err != nil {
		return nil, &Error{Message: err.Error(), Func: "Read"}
	}
	return d, nil
}
