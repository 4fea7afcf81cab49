package aw20216s

// Register pages, selected by bits 3:1 of the command byte.
const (
	PageFunction   = 0x00 // control, global current, breathing patterns
	PagePWM        = 0x01 // per-channel brightness
	PageScaling    = 0x02 // per-channel current scaling
	PagePattern    = 0x03 // per-channel pattern selection, 3 channels per byte
	PagePWMScaling = 0x04 // virtual page interleaving PWM and scaling

	numPages = 5
)

// pageUnknown marks the page cache as invalid.
const pageUnknown = 0xFF

// Page 0 registers driven by the Dev methods.
const (
	regGCR    = 0x00 // Global Control: SWSEL[7:4], CHIPEN[0]
	regGCCR   = 0x01 // Global Current
	regPCCR   = 0x29 // PWM Clock: PWMFRE[7:5], PHASE[1:0]
	regRSTN   = 0x2F // Soft reset
	regPWMH0  = 0x30 // Breath maximum brightness, 0x30-0x32
	regPWML0  = 0x33 // Breath minimum brightness, 0x33-0x35
	regPAT0T0 = 0x36 // Pattern timers, 4 per slot, 0x36-0x41
	regPAT0CF = 0x42 // Pattern configuration, 0x42-0x44
	regPATGO  = 0x45 // Pattern start control
)

// Page 0 registers without a dedicated method, for use with WriteRegister
// and ReadRegister.
const (
	RegDGCR  = 0x02 // De-ghost Control
	RegOSR   = 0x03 // Open/Short status, 0x03-0x26
	RegOTCR  = 0x27 // Over Temperature Control
	RegSSCR  = 0x28 // Spread Spectrum Control
	RegUVCR  = 0x2A // UVLO Control
	RegSRCR  = 0x2B // Slew Rate Control
	RegMIXCR = 0x46 // Mix function
	RegSDCR  = 0x4D // SW drive capability
)

// Command byte layout.
const (
	cmdChipID = 0xA0 // 1010xxxx
	cmdRead   = 0x01
)

const (
	resetCommand = 0xAE // value written to regRSTN
	gcrChipEn    = 0x01
	pccrReserved = 0x1C // bits 4:2 must stay 0
	defaultGCCR  = 0x80
)

// PATxCFG bits.
const (
	patEnable = 0x01 // PATEN
	patAuto   = 0x02 // PATMD, autonomous breathing
	patLog    = 0x04 // LOGEN, logarithmic curve

	patControlled = patEnable | patAuto | patLog
)

const (
	numChannels      = 216
	timersPerPattern = 4
)

// command returns the first byte of a transaction addressing page.
func command(page byte, read bool) byte {
	c := cmdChipID | (page&0x07)<<1
	if read {
		c |= cmdRead
	}
	return c
}
