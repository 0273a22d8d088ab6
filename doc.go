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
Package fuller generates and manipulates atomic structures for C60
fullerene systems: single molecules, dimers and qHP (quasi-hexagonal
planar) networks, together with strain transformations and
substitutional B/N/P doping.

Coordinates are held in gonum matrices, one row per atom, columns x, y,
z, in Angstrom. The cp2k subpackage turns these structures into inputs
for the CP2K program and scrapes its output logs; the run, hpc and
report subpackages cover local screening runs, Slurm batch preparation
and result plotting.
*/
package fuller
