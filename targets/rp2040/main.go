//go:build rp2040

package main

import (
	"machine"
	"time"

	"placebo/core"
	"placebo/firmware"
)

var (
	app *firmware.App

	// Debug counters
	serialPolls  uint32
	serialErrors uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	uart, err := NewUARTStream(machine.UART0, machine.UART0_TX_PIN, machine.UART0_RX_PIN)
	if err != nil {
		DebugPrintln("[MAIN] UART0 configure failed: " + err.Error())
		halt()
	}

	var led core.OutputPin
	pioLED, err := NewPIOOutput(0, machine.LED)
	if err != nil {
		DebugPrintln("[MAIN] PIO output unavailable, using GPIO: " + err.Error())
		led = NewGPIOOutput(machine.LED)
	} else {
		led = pioLED
	}

	cfg := GetVariant()
	cfg.TimerIRQ = timerIRQ
	cfg.SerialIRQ = serialIRQ
	cfg.Pinout = PicoPinout

	app, err = firmware.New(cfg, led, NewAlarmTimer(), uart)
	if err != nil {
		DebugPrintln("[MAIN] firmware init failed: " + err.Error())
		halt()
	}

	bell := NewBell(BuzzerPin)
	app.SetBell(bell.Ring)
	go bell.Run()

	EnableTimerInterrupt()
	app.Boot()

	if app.Shell() == nil {
		// Tick-tock only talks, nothing to read
		halt()
	}

	// The receive interrupt is owned by the machine package's UART
	// driver, so the serial task is raised from here
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					serialErrors++
				}
			}()

			if uart.Buffered() > 0 {
				serialPolls++
				app.SerialInterrupt()
			}
		}()

		time.Sleep(500 * time.Microsecond)
	}
}

// halt parks the firmware after a fatal init error
func halt() {
	for {
		time.Sleep(time.Second)
	}
}
