// Package protocol describes the register-level protocol of the PFU/DFU NOR flash controllers.
//
// Each controller instance exposes a fixed register block. A mutating operation is a short
// sequence of 32-bit writes into that block followed by polling of the status register:
//
//	[WMPR] <- 0x01234567, 0xFEDCBA98   unlock handshake
//	[SWERn] <- 0xFFFFFFFF              sector write enable
//	[WMR]  <- mode                     command code
//	[OAR]  <- address                  operation address
//	[PDRn] <- data                     program data (program modes only)
//	[OSR]  <- 1                        start
//	poll FSR until RDY (or SPWP between series groups)
//
// # Sequence Builders
//
// Use the Build* functions to obtain the register writes for one step:
//
//	seq := protocol.BuildUnlockSeq(protocol.PFU0Base)
//	seq := protocol.BuildSectorEraseSeq(protocol.PFU0Base, 0x10004000)
//	seq, err := protocol.BuildSingleProgramSeq(protocol.DFU0Base, 0x40400000, words)
//
// The builders only encode; issuing the writes and polling is done by package flash.
//
// # Decoding
//
// ParseMappingMode decodes the shared mapping-configuration register per region,
// StatusHas tests FSR bits and PackWords converts byte buffers into little-endian words.
package protocol
