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

package tlsmd

//Error is the interface implemented by the errors of this library. The
//Decorate method adds information as the error travels up the call stack,
//without changing its type or wrapping it.
type Error interface {
	Error() string
	Decorate(string) []string
}

//CError is the concrete error of the package.
type CError struct {
	msg  string
	deco []string
}

//Error returns a string with an error message.
func (err CError) Error() string {
	return err.msg
}

//Decorate adds dec to the decoration slice of the error, and returns the
//resulting slice. An empty dec only retrieves the current decorations.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that err implements Error, decorates it with the
//caller's name and returns it. Calling it with a foreign error is a
//programming mistake and panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
