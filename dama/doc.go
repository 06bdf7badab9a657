// SPDX-License-Identifier: GPL-3.0

// Package dama implements the link-layer half of the simulation core: a
// shared broadcast Channel, a per-node Mac with bounded queueing and
// Ethernet-style framing, and a Controller contract arbitrated by a
// concrete Reservation-ALOHA (R-ALOHA) TDMA policy. A NetDevice glues the
// three together behind a simple send/receive-callback façade.
//
// Generic network-device scaffolding (MAC-48 allocation pools, multicast,
// ARP, link-up notifications) is out of scope; Address here is the minimal
// 48-bit identifier DAMA's framing needs, not a full addressing subsystem.
package dama
