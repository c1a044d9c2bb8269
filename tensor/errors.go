/*
 * errors.go, part of gotlsmd.
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

package tensor

//Error is the concrete error type of the package. The deco slice collects
//the names of the functions the error has passed through.
type Error struct {
	message string
	deco    []string
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate adds dec to the decoration slice of the error, and returns the
//resulting slice. An empty dec only retrieves the current decorations.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//PanicMsg is a message used for panics. It satisfies the error interface
//but is meant for programmer errors, not runtime conditions.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNot3x3          = PanicMsg("gotlsmd/tensor: matrix is not 3x3")
	ErrIndexOutOfRange = PanicMsg("gotlsmd/tensor: index out of range")
	ErrEigen           = PanicMsg("gotlsmd/tensor: can't obtain eigenvalues of given tensor")
)
