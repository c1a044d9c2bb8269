/*
 * snapshot.go, part of gotlsmd.
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

//A built segment database is the expensive part of an analysis: O(N^2)
//least-squares fits. Save and LoadSegmentDatabase persist one as a unit,
//zstd-compressed gob, so a rerun with a different group count or a later
//report pass does not have to refit anything.

package tlsmd

import (
	"encoding/gob"
	"io"

	"github.com/klauspost/compress/zstd"
)

//Save writes the database to w.
func (db *SegmentDatabase) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return CError{err.Error(), []string{"SegmentDatabase.Save"}}
	}
	if err := gob.NewEncoder(zw).Encode(db); err != nil {
		zw.Close()
		return CError{err.Error(), []string{"SegmentDatabase.Save"}}
	}
	if err := zw.Close(); err != nil {
		return CError{err.Error(), []string{"SegmentDatabase.Save"}}
	}
	return nil
}

//LoadSegmentDatabase reads a database previously written by Save.
func LoadSegmentDatabase(r io.Reader) (*SegmentDatabase, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, CError{err.Error(), []string{"LoadSegmentDatabase"}}
	}
	defer zr.Close()
	db := new(SegmentDatabase)
	if err := gob.NewDecoder(zr).Decode(db); err != nil {
		return nil, CError{err.Error(), []string{"LoadSegmentDatabase"}}
	}
	return db, nil
}
