/*
 * doc.go, part of gofuller.
 *
 *
 * Copyright 2025 Xiaoqing Chen
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
 */

/*
Package cp2k drives the CP2K program as a subprocess: it builds
plain-text input files for a structure, runs the binary with a
wall-clock timeout, and scrapes the output log for total energy,
HOMO-LUMO gap and SCF convergence.

You need a working CP2K installation to actually run calculations;
input building and output parsing work without one. The markers scanned
for in the output are owned by CP2K, not by this package; they are
pinned here as constants and may need updating for future CP2K
releases.
*/
package cp2k
