//go:build rp2040

package main

// PicoPinout is printed by "help pinout" on a Raspberry Pi Pico
const PicoPinout = "\r\n" +
	"                  Pico          \r\n" +
	"            ╔═════╦USB╦═════╗   \r\n" +
	" (TX)   GP0 ╣1    ╚═══╝   40╠ VBUS\r\n" +
	" (RX)   GP1 ╣2            39╠ VSYS\r\n" +
	"        GND ╣3            38╠ GND \r\n" +
	"        GP2 ╣4            37╠ 3V3_EN\r\n" +
	"        GP3 ╣5            36╠ 3V3 \r\n" +
	" (DBG)  GP4 ╣6            35╠ ADC_VREF\r\n" +
	" (DBG)  GP5 ╣7            34╠ GP28\r\n" +
	"        ... ╣             ..╠ ... \r\n" +
	"       GP15 ╣20 (BUZZER)  21╠ GP16\r\n" +
	"            ╚═══════════════╝   \r\n" +
	"  (LED) GP25 on board           \r\n\r\n"
