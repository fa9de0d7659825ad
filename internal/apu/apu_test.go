package apu

import "testing"

func TestWriteChannelEnableControlsStatusBits(t *testing.T) {
	a := New()
	a.WriteRegister(0x4003, 0x08) // pulse1 length counter load
	a.WriteRegister(0x4015, 0x01) // enable pulse1 only

	status := a.ReadStatus()
	if status&0x01 == 0 {
		t.Fatalf("pulse1 status bit not set after enabling with a nonzero length counter")
	}

	a.WriteRegister(0x4015, 0x00)
	if a.ReadStatus()&0x01 != 0 {
		t.Fatalf("pulse1 status bit still set after disabling the channel")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	a := New()
	a.WriteRegister(0x4000, 0x3F) // pulse1 duty/volume
	a.WriteRegister(0x4002, 0x55) // pulse1 timer low
	a.WriteRegister(0x4003, 0x07) // pulse1 timer high + length load
	a.WriteRegister(0x400C, 0x2A) // noise envelope
	a.WriteRegister(0x400E, 0x04) // noise period
	a.WriteRegister(0x4015, 0x0F)
	for i := 0; i < 500; i++ {
		a.Step()
	}
	snap := a.Snapshot()

	other := New()
	other.Restore(snap)

	if other.pulse1 != a.pulse1 {
		t.Fatalf("restored pulse1 state diverges: %+v vs %+v", other.pulse1, a.pulse1)
	}
	if other.noise != a.noise {
		t.Fatalf("restored noise state diverges: %+v vs %+v", other.noise, a.noise)
	}
	if other.frameCounter != a.frameCounter || other.cycles != a.cycles {
		t.Fatalf("restored frame counter/cycles diverge: frameCounter=%d/%d cycles=%d/%d",
			other.frameCounter, a.frameCounter, other.cycles, a.cycles)
	}
	if other.channelEnable != a.channelEnable {
		t.Fatalf("restored channel enable flags diverge: %+v vs %+v", other.channelEnable, a.channelEnable)
	}
}

func TestFrameIRQCanBeSuppressed(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x40) // 4-step mode, IRQ disabled
	for i := 0; i < 30000; i++ {
		a.Step()
	}
	if a.GetFrameIRQ() {
		t.Fatalf("frame IRQ flag set despite being disabled via $4017 bit 6")
	}
}
