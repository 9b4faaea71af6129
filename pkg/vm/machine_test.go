package vm

import (
	"bytes"
	"errors"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ins(op Opcode, arg int) Instruction {
	return Instruction{Op: op, Arg: arg}
}

func jump(op Opcode, label, target int) Instruction {
	return Instruction{Op: op, Label: label, Target: target}
}

var _ = Describe("Machine", func() {
	var (
		mockCtrl    *gomock.Controller
		mockConsole *MockConsole
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockConsole = NewMockConsole(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	run := func(program ...Instruction) (*Machine, error) {
		m := NewMachine(program, mockConsole)
		return m, m.Run()
	}

	Context("Memory", func() {
		It("should reserve cells with AMEM", func() {
			m, err := run(ins(OpINPP, 0), ins(OpAMEM, 3), ins(OpPARA, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Memory).To(Equal([]int{0, 0, 0}))
			Expect(m.Halted).To(BeTrue())
			Expect(m.Steps).To(Equal(3))
		})

		It("should store and load cells", func() {
			m, err := run(
				ins(OpINPP, 0), ins(OpAMEM, 2),
				ins(OpCRCT, 9), ins(OpARMZ, 1),
				ins(OpCRVL, 1), ins(OpCRVL, 1),
				ins(OpPARA, 0),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Memory).To(Equal([]int{0, 9}))
			Expect(m.Stack).To(Equal([]int{9, 9}))
		})

		It("should reject addresses outside the reserved area", func() {
			_, err := run(ins(OpINPP, 0), ins(OpAMEM, 1), ins(OpCRVL, 1), ins(OpPARA, 0))
			Expect(errors.Is(err, ErrBadAddress)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("pc 2 (CRVL 1"))
		})

		It("should reject a negative AMEM", func() {
			_, err := run(ins(OpAMEM, -1))
			Expect(err).To(MatchError(ContainSubstring("negative AMEM size")))
		})
	})

	Context("Arithmetic", func() {
		It("should multiply and add", func() {
			m, err := run(
				ins(OpCRCT, 6), ins(OpCRCT, 7), ins(OpMULT, 0),
				ins(OpCRCT, 8), ins(OpSOMA, 0),
				ins(OpPARA, 0),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Stack).To(Equal([]int{50}))
		})

		DescribeTable("CMEG",
			func(a, b, want int) {
				m, err := run(ins(OpCRCT, a), ins(OpCRCT, b), ins(OpCMEG, 0), ins(OpPARA, 0))
				Expect(err).NotTo(HaveOccurred())
				Expect(m.Stack).To(Equal([]int{want}))
			},
			Entry("less", 1, 2, 1),
			Entry("equal", 2, 2, 1),
			Entry("greater", 3, 2, 0),
			Entry("negative", -5, -6, 0),
		)

		It("should report stack underflow", func() {
			_, err := run(ins(OpCRCT, 1), ins(OpSOMA, 0))
			Expect(errors.Is(err, ErrStackUnderflow)).To(BeTrue())
		})
	})

	Context("Control flow", func() {
		It("should branch on false only", func() {
			m, err := run(
				ins(OpCRCT, 1), jump(OpDSVF, 1, 3), // not taken
				ins(OpCRCT, 0), jump(OpDSVF, 2, 5), // taken
				ins(OpCRCT, 99),
				jump(OpNADA, 2, 0),
				ins(OpPARA, 0),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Stack).To(BeEmpty())
		})

		It("should loop until the counter passes the limit", func() {
			// i := 0; top: if !(i <= 2) goto exit; i := i + 1; goto top; exit:
			m, err := run(
				ins(OpINPP, 0), ins(OpAMEM, 1),
				ins(OpCRCT, 0), ins(OpARMZ, 0),
				jump(OpNADA, 1, 0),
				ins(OpCRVL, 0), ins(OpCRCT, 2), ins(OpCMEG, 0), jump(OpDSVF, 2, 14),
				ins(OpCRVL, 0), ins(OpCRCT, 1), ins(OpSOMA, 0), ins(OpARMZ, 0),
				jump(OpDSVS, 1, 4),
				jump(OpNADA, 2, 0),
				ins(OpPARA, 0),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Memory).To(Equal([]int{3}))
		})

		It("should stop at the step limit", func() {
			m := NewMachine([]Instruction{jump(OpNADA, 1, 0), jump(OpDSVS, 1, 0)}, nil)
			m.MaxSteps = 50
			err := m.Run()
			Expect(errors.Is(err, ErrStepLimit)).To(BeTrue())
			Expect(m.Steps).To(Equal(50))
		})

		It("should fail when the program falls off the end", func() {
			_, err := run(ins(OpCRCT, 1))
			Expect(err).To(MatchError(ErrNoHalt))
		})

		It("should ignore steps after halting", func() {
			m, err := run(ins(OpPARA, 0), ins(OpCRCT, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Step()).To(Succeed())
			Expect(m.Steps).To(Equal(1))
		})
	})

	Context("Console", func() {
		It("should read with LEIT and print with IMPR", func() {
			gomock.InOrder(
				mockConsole.EXPECT().ReadInt().Return(21, nil),
				mockConsole.EXPECT().WriteInt(42).Return(nil),
			)
			_, err := run(
				ins(OpLEIT, 0), ins(OpCRCT, 2), ins(OpMULT, 0),
				ins(OpIMPR, 0), ins(OpPARA, 0),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should propagate console failures", func() {
			mockConsole.EXPECT().ReadInt().Return(0, ErrInputExhausted)
			_, err := run(ins(OpLEIT, 0), ins(OpPARA, 0))
			Expect(errors.Is(err, ErrInputExhausted)).To(BeTrue())
		})

		It("should fail LEIT without a console", func() {
			m := NewMachine([]Instruction{ins(OpLEIT, 0)}, nil)
			Expect(errors.Is(m.Run(), ErrInputExhausted)).To(BeTrue())
		})

		It("should read and write streams", func() {
			var out bytes.Buffer
			c := NewConsole(strings.NewReader(" 4\n-3 "), &out)
			Expect(c.ReadInt()).To(Equal(4))
			Expect(c.ReadInt()).To(Equal(-3))
			_, err := c.ReadInt()
			Expect(err).To(MatchError(ErrInputExhausted))
			Expect(c.WriteInt(7)).To(Succeed())
			Expect(out.String()).To(Equal("7\n"))
		})
	})

	Context("Diagnostics", func() {
		It("should render the machine state", func() {
			m, err := run(ins(OpINPP, 0), ins(OpAMEM, 2), ins(OpCRCT, 5), ins(OpPARA, 0))
			Expect(err).NotTo(HaveOccurred())
			s := m.StateTable()
			Expect(s).To(ContainSubstring("Machine state"))
			Expect(s).To(ContainSubstring("M[1]"))
			Expect(s).To(ContainSubstring("[5]"))
		})
	})
})

var _ = Describe("Opcodes", func() {
	It("should look up mnemonics in any case", func() {
		op, ok := Lookup("cmeg")
		Expect(ok).To(BeTrue())
		Expect(op).To(Equal(OpCMEG))
		_, ok = Lookup("JMP")
		Expect(ok).To(BeFalse())
	})

	It("should format instructions", func() {
		Expect(Instruction{Op: OpCRCT, Arg: 3}.String()).To(Equal("CRCT 3"))
		Expect(Instruction{Op: OpDSVF, Label: 2}.String()).To(Equal("DSVF L2"))
		Expect(Instruction{Op: OpIMPR}.String()).To(Equal("IMPR"))
		Expect(Opcode(200).String()).To(Equal("Opcode(200)"))
	})
})
